package domain

import "errors"

var (
	// ErrInvalidFormat возвращается, когда входной документ не является
	// корректным экспортом Telegram ожидаемой структуры. Разбор прерывается
	// целиком, частичный результат не возвращается.
	ErrInvalidFormat = errors.New("invalid export format")

	// ErrNoMessages возвращается, когда документ разобран, но не содержит
	// ни одного сообщения (нет чатов или все чаты пусты).
	ErrNoMessages = errors.New("no messages found")
)
