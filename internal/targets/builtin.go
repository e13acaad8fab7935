package targets

// builtinList ships with the tool and is used when no url file is found.
// It intentionally contains repeats; Prepare removes them.
var builtinList = []string{
	"https://f1.352343.cc",
	"https://f2.352343.cc",
	"https://f3.352343.cc",
	"https://fn1.352343.cc",
	"https://fn2.352343.cc",
	"https://fn3.352343.cc",
	"https://fn1.344233.cc",
	"https://fn2.344233.cc",
	"https://fn3.344233.cc",
	"https://f1.453521.xyz",
	"https://f2.453521.xyz",
	"https://f3.453521.xyz",
	"https://f1.170809.xyz",
	"https://f2.170809.xyz",
	"https://f3.170809.xyz",
	"https://fn1.170809.xyz",
	"https://fn2.170809.xyz",
	"https://fn3.170809.xyz",
	"https://fn4.170809.xyz",
	"https://fn5.170809.xyz",
	"https://fn6.170809.xyz",
	"https://fn1.170203.xyz",
	"https://fn2.170203.xyz",
	"https://fn3.170203.xyz",
	"https://fn1.233235.xyz",
	"https://fn2.233235.xyz",
	"https://fn3.233235.xyz",
	"https://fn4.233235.xyz",
	"https://fn5.233235.xyz",
	"https://fn6.233235.xyz",
	"https://fn1.476579.xyz",
	"https://fn2.476579.xyz",
	"https://fn3.476579.xyz",
	"https://fn4.476579.xyz",
	"https://fn5.476579.xyz",
	"https://fn6.476579.xyz",
	"https://fn7.476579.xyz",
	"https://fn8.476579.xyz",
	"https://fn9.476579.xyz",
	"https://fn4.757866.xyz",
	"https://fn5.757866.xyz",
	"https://fn6.757866.xyz",
	"https://fn1.767887.xyz",
	"https://fn2.767887.xyz",
	"https://fn3.767887.xyz",
	"https://fn1.595780.xyz",
	"https://fn2.595780.xyz",
	"https://fn3.595780.xyz",
	"https://fn7.476579.xyz",
	"https://fn6.757866.xyz",
	"https://fn4.476579.xyz",
}

// Builtin returns a copy of the default url list.
func Builtin() []string {
	return append([]string(nil), builtinList...)
}
