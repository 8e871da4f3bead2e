package domain

type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

func (t Tool) Valid() bool {
	return t == ToolBrush || t == ToolEraser
}

// Stroke — завершённый штрих. Авторские поля (UserID, Username, Color)
// проставляются сервером при приёме, клиенту не доверяем.
type Stroke struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	Color     string  `json:"color"`
	Path      []Point `json:"path"`
	Tool      Tool    `json:"tool"`
	Size      float64 `json:"size"`
	Timestamp int64   `json:"timestamp"` // unix ms, только для отображения
}

func (s *Stroke) Validate() error {
	if s.ID == "" {
		return ErrInvalidStroke
	}
	if len(s.Path) == 0 {
		return ErrInvalidStroke
	}
	if !s.Tool.Valid() {
		return ErrInvalidStroke
	}
	if s.Size <= 0 {
		return ErrInvalidStroke
	}
	return nil
}
