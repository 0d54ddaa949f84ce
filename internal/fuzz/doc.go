// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser -> specializer). Они проверяют, что произвольный
// вход не роняет разбор, не зацикливает восстановление после ошибок и
// оставляет структурно целый Component.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
