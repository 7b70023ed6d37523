// Package term предоставляет вспомогательные функции для работы с терминалом.
package term

import (
	"os"

	"golang.org/x/term"
)

const widthBackup = 80

// Width возвращает ширину терминала, подключенного к stdout. Если stdout не
// является терминалом, возвращается запасное значение 80.
func Width() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return widthBackup
	}
	return width
}

// IsTerminal сообщает, подключен ли stdout к терминалу.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
