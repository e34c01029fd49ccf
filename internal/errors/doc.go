// Package errors provides structured, actionable error messages for kakapo.
//
// Most errors in the reactive core are programmer errors: a view downcasting
// user data to the wrong type, a delegate borrowing application state twice,
// or a widget description reused across caches. These are raised as panics
// carrying an *Error so the diagnostic names the violated contract before the
// offending operation is terminated.
//
// # Error Categories
//
//   - runtime: capsule and cache contract violations (fatal)
//   - window: render loop operating conditions (recoverable)
//   - config: invalid or unreadable configuration
//   - cli: command line failures
//
// # Usage
//
//	panic(errors.New("K001").
//	    WithTypes("*demo.AppData", "*other.State").
//	    WithSuggestion("Register the view against the state root it expects"))
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR K001: User data type mismatch
//	//
//	//   expected: *demo.AppData
//	//   actual:   *other.State
//	//
//	//   Hint: Register the view against the state root it expects
package errors
