// Package validation holds the pure checks and text transforms applied to user input
// before it is sent to the backend or rendered.
//
// Every function is total: it never panics and never returns an error for bad input. Bad input is reported
// through [Result] instead. The sanitizers are plain string transforms with no markup engine behind them.
// [EscapeHTML] covers the five characters that can open markup or break out of an attribute.
package validation
