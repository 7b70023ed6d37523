package parser

import (
	"encoding/json"
	"fmt"

	"github.com/undeluro/tglens/internal/domain"
	"github.com/undeluro/tglens/internal/ports"
)

// JsonParser реализует интерфейс Parser для разбора JSON данных.
type JsonParser struct{}

// NewJsonParser создает новый экземпляр JsonParser.
func NewJsonParser() ports.Parser {
	return &JsonParser{}
}

// Parse преобразует срез байт с JSON в структуру RawExport. Принимаются две
// формы: полный архив с "chats.list" и экспорт одного чата с "messages" на
// верхнем уровне (последний оборачивается в архив из одного чата).
func (p *JsonParser) Parse(data []byte) (*domain.RawExport, error) {
	var export domain.RawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal json: %v", domain.ErrInvalidFormat, err)
	}

	if len(export.Chats.List) > 0 {
		return &export, nil
	}

	// Возможно, это экспорт одного чата.
	var single domain.Chat
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal json: %v", domain.ErrInvalidFormat, err)
	}
	if len(single.Messages) == 0 {
		// Пустой архив: оставляем решение о "no messages" нормализатору.
		return &export, nil
	}
	export.Chats.List = []domain.Chat{single}
	return &export, nil
}
