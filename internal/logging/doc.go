// Package logging provides structured logging for sessiontrim built on Zap.
//
// Components receive a *Logger and create named children for their own
// output. The logger writes JSON by default; the CLI switches it to the
// console encoder when attached to a terminal.
package logging
