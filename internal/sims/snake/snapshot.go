package snake

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Steps    uint64
	Score    int
	SnakeLen int
	HeadX    int
	HeadY    int
	Dir      Direction
	EggX     int
	EggY     int
	State    State
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	headX, headY := 0, 0
	if len(g.snake) > 0 {
		headX = g.snake[0].X
		headY = g.snake[0].Y
	}
	return Snapshot{
		Steps:    g.steps,
		Score:    g.score,
		SnakeLen: len(g.snake),
		HeadX:    headX,
		HeadY:    headY,
		Dir:      g.dir,
		EggX:     g.egg.X,
		EggY:     g.egg.Y,
		State:    g.state,
	}
}
