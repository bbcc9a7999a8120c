package position

// Position は職位エンティティです。Domain と Title の組で一意になります。
type Position struct {
	ID          int64
	Domain      string
	Title       string
	Description string
}
