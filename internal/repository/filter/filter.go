package filter

type Where struct {
	Path  string
	Op    string
	Value interface{}
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

type OrderBy struct {
	Path      string
	Direction Direction
}
