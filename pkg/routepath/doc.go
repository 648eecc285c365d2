// Package routepath normalizes paths received from browser tabs before
// they reach navigation state.
//
// Tabs are untrusted: a hello or navigate frame may carry anything the
// page script produced. Canonicalize turns such input into a clean
// site-relative path or rejects it with an E504 error:
//
//	"/users//7/./posts/../"   -> "/users/7"
//	"/docs?tab=1#intro"       -> "/docs"
//	"https://evil.example/x"  -> E504
//	"/../etc"                 -> E504
package routepath
