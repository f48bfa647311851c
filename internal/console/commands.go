package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// handleMove plays a move in coordinate notation or SAN.
func (c *Console) handleMove(text string) error {
	var (
		m   board.Move
		err error
	)
	if isCoordinate(text) {
		m, err = c.game.MoveUCI(text)
	} else {
		m, err = c.game.MoveSAN(text)
	}
	if err != nil {
		if errors.Is(err, board.ErrIllegalMove) && isCoordinate(text) {
			from, _ := board.ParseSquare(text[0:2])
			to, _ := board.ParseSquare(text[2:4])
			return fmt.Errorf("%w (%s)", err, c.game.Explain(from, to))
		}
		return err
	}

	history := c.game.SANHistory()
	fmt.Fprintf(c.out, "%s played %s\n", m.Moved.Color(), history[len(history)-1])
	c.printOutcome()
	return nil
}

// isCoordinate reports whether s looks like "e2e4" or "e7e8q".
func isCoordinate(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if _, err := board.ParseSquare(strings.ToLower(s[0:2])); err != nil {
		return false
	}
	_, err := board.ParseSquare(strings.ToLower(s[2:4]))
	return err == nil
}

func (c *Console) handleClick(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: click <square>")
	}
	sq, err := board.ParseSquare(strings.ToLower(args[0]))
	if err != nil {
		return err
	}

	res, err := c.game.Click(sq)
	if err != nil {
		return err
	}
	switch res {
	case game.ClickSelected:
		fmt.Fprintf(c.out, "selected %s: %s\n", sq, c.game.LegalMovesFrom(sq))
	case game.ClickMoved:
		history := c.game.SANHistory()
		fmt.Fprintf(c.out, "played %s\n", history[len(history)-1])
		c.printOutcome()
	default:
		fmt.Fprintln(c.out, res)
	}
	return nil
}

func (c *Console) handleWhy(args []string) error {
	if len(args) != 1 || !isCoordinate(args[0]) {
		return errors.New("usage: why <from><to>")
	}
	s := strings.ToLower(args[0])
	from, _ := board.ParseSquare(s[0:2])
	to, _ := board.ParseSquare(s[2:4])
	fmt.Fprintln(c.out, c.game.Explain(from, to))
	return nil
}

func (c *Console) handleMoves(args []string) error {
	moves := c.game.LegalMoves()
	if len(args) > 0 {
		sq, err := board.ParseSquare(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		moves = moves.From(sq)
	}

	pos := c.game.Position()
	san := make([]string, len(moves))
	for i, m := range moves {
		san[i] = pos.SAN(m)
	}
	fmt.Fprintf(c.out, "%d moves: %s\n", len(moves), strings.Join(san, " "))
	return nil
}

func (c *Console) handleUndo() error {
	if err := c.game.Undo(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Move undone.")
	return nil
}

func (c *Console) printBoard() {
	pos := c.game.Position()
	b := pos.Board()
	if c.prefs.ShowCoordinates {
		fmt.Fprint(c.out, b.String())
	} else {
		for row := 0; row < 8; row++ {
			cells := make([]string, 8)
			for col := 0; col < 8; col++ {
				cells[col] = b[row][col].String()
			}
			fmt.Fprintln(c.out, strings.Join(cells, " "))
		}
	}
	fmt.Fprintf(c.out, "%s to move\n", pos.SideToMove())
}

func (c *Console) printStatus() {
	g := c.game
	fmt.Fprintf(c.out, "%s to move, %s, %d legal moves\n", g.SideToMove(), g.Status(), len(g.LegalMoves()))
	if g.InCheck() && !g.Over() {
		fmt.Fprintln(c.out, "Check!")
	}
	if g.Over() {
		fmt.Fprintf(c.out, "%s %s\n", g.Result(), g.Outcome())
	}
	if id := g.ID(); id != 0 {
		fmt.Fprintf(c.out, "saved as game %d\n", id)
	}
}

// printOutcome announces check and the end of the game after a move.
func (c *Console) printOutcome() {
	g := c.game
	switch {
	case g.Over():
		fmt.Fprintf(c.out, "%s %s\n", g.Result(), g.Outcome())
		if id := g.ID(); id != 0 {
			fmt.Fprintf(c.out, "Game saved as %d.\n", id)
		}
	case g.InCheck():
		fmt.Fprintln(c.out, "Check!")
	}
}

func (c *Console) printHistory() {
	fmt.Fprintln(c.out, formatHistory(c.game.SANHistory()))
}

// formatHistory numbers moves in pairs: "1. e4 e5 2. Nf3".
func formatHistory(san []string) string {
	if len(san) == 0 {
		return "(no moves)"
	}
	var sb strings.Builder
	for i, s := range san {
		if i%2 == 0 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func parseDepth(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return 0, fmt.Errorf("bad depth %q", args[0])
	}
	return depth, nil
}

func (c *Console) handlePerft(args []string) error {
	depth, err := parseDepth(args, 4)
	if err != nil {
		return err
	}

	start := time.Now()
	nodes := c.game.Position().Copy().Perft(depth)
	elapsed := time.Since(start)

	c.log.Debug().Int("depth", depth).Uint64("nodes", nodes).Dur("elapsed", elapsed).Msg("perft")
	fmt.Fprintf(c.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(c.out, "Time: %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Fprintf(c.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}

func (c *Console) handleDivide(args []string) error {
	depth, err := parseDepth(args, 1)
	if err != nil {
		return err
	}

	var total uint64
	for _, e := range c.game.Position().Copy().Divide(depth) {
		fmt.Fprintf(c.out, "%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	fmt.Fprintf(c.out, "Nodes: %d\n", total)
	return nil
}
