// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through the ember pipeline (source -> lexer -> parser -> checker -> codegen).
// Each stage must either succeed or return a diagnostic; panics and hangs
// are failures.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
