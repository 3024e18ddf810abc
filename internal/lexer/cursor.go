package lexer

import (
	"fmt"

	"ember/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive upper bound for Off
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) (Cursor, error) {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return Cursor{}, fmt.Errorf("len file content overflow: %w", err)
	}
	return Cursor{File: f, Limit: limit}, nil
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// ResetAfter ставит курсор на n байт после метки.
func (c *Cursor) ResetAfter(m Mark, n int) error {
	delta, err := safecast.Conv[uint32](n)
	if err != nil {
		return fmt.Errorf("cursor offset overflow: %w", err)
	}
	if off := uint32(m) + delta; off >= uint32(m) && off <= c.Limit {
		c.Off = off
		return nil
	}
	return fmt.Errorf("cursor offset %d+%d past limit %d", m, n, c.Limit)
}

// Text returns the bytes between m and the cursor.
func (c *Cursor) Text(m Mark) []byte {
	return c.File.Content[m:c.Off]
}
