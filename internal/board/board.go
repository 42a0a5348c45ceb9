package board

// Size is the side length of the grid.
const Size = 3

// Mark is the content of a cell. X and O double as the two sides.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Opponent returns the other side. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// IsSide reports whether m is X or O.
func (m Mark) IsSide() bool {
	return m == X || m == O
}

// Move addresses a single cell.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveFromIndex converts a row-major cell index (0..8) into a Move.
func MoveFromIndex(cell int) Move {
	return Move{Row: cell / Size, Col: cell % Size}
}

// Index returns the row-major cell index of the move.
func (that Move) Index() int {
	return that.Row*Size + that.Col
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// winLines holds the 8 winning lines: rows, columns, then both diagonals.
var winLines = [8][Size]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is the 3x3 grid. It is a plain value, so copies are independent.
type Board [Size][Size]Mark

// New returns a board with every cell empty.
func New() Board {
	return Board{}
}

func (that *Board) At(move Move) Mark {
	return that[move.Row][move.Col]
}

func (that *Board) IsEmpty(move Move) bool {
	return that[move.Row][move.Col] == Empty
}

// LegalMoves returns every empty cell in row-major order.
func (that *Board) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if that[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Place puts side on the cell. The caller guarantees the cell is empty.
func (that *Board) Place(move Move, side Mark) {
	that[move.Row][move.Col] = side
}

// Clear empties the cell.
func (that *Board) Clear(move Move) {
	that[move.Row][move.Col] = Empty
}

// HasWon reports whether side owns any full line.
func (that *Board) HasWon(side Mark) bool {
	for _, line := range winLines {
		if that.At(line[0]) == side && that.At(line[1]) == side && that.At(line[2]) == side {
			return true
		}
	}

	return false
}

// IsDraw reports whether no empty cell is left. It does not look at lines,
// so callers check HasWon for both sides first.
func (that *Board) IsDraw() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if that[row][col] == Empty {
				return false
			}
		}
	}

	return true
}

// Winner returns the side owning a full line, or Empty.
func (that *Board) Winner() Mark {
	switch {
	case that.HasWon(X):
		return X
	case that.HasWon(O):
		return O
	default:
		return Empty
	}
}

func (that *Board) Count(mark Mark) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if that[row][col] == mark {
				n++
			}
		}
	}

	return n
}

// IsTerminal reports whether either side has won or the board is full.
func (that *Board) IsTerminal() bool {
	return that.HasWon(X) || that.HasWon(O) || that.IsDraw()
}
