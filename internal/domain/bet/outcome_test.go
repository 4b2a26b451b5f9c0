package bet

import (
	"testing"

	"github.com/marcosfdz/jornadabet/internal/domain/fixture"
)

func finishedResult(home, away int) fixture.Result {
	return fixture.Result{
		FixtureID:    9001,
		HomeTeamName: "Real Madrid",
		AwayTeamName: "Girona",
		HomeGoals:    home,
		AwayGoals:    away,
		Status:       fixture.StatusFullTime,
	}
}

func TestEvaluate_WinnerMarket(t *testing.T) {
	t.Parallel()

	b := Bet{Market: "Resultado final", Label: "Ganará Real Madrid"}

	verdict := Evaluate(b, finishedResult(2, 0), fixture.Stats{})
	if !verdict.Resolved || !verdict.Won || verdict.NeedsReview {
		t.Fatalf("home win 2-0: %+v", verdict)
	}

	verdict = Evaluate(b, finishedResult(0, 1), fixture.Stats{})
	if !verdict.Resolved || verdict.Won {
		t.Fatalf("home loss 0-1: %+v", verdict)
	}

	verdict = Evaluate(b, finishedResult(1, 1), fixture.Stats{})
	if verdict.Won {
		t.Fatalf("draw must lose a winner bet: %+v", verdict)
	}
}

func TestEvaluate_DrawLabel(t *testing.T) {
	t.Parallel()

	b := Bet{Market: "Resultado final", Label: "Empate"}

	if verdict := Evaluate(b, finishedResult(1, 1), fixture.Stats{}); !verdict.Won {
		t.Fatalf("1-1 must win a draw bet: %+v", verdict)
	}
	if verdict := Evaluate(b, finishedResult(2, 1), fixture.Stats{}); verdict.Won {
		t.Fatalf("2-1 must lose a draw bet: %+v", verdict)
	}
}

func TestEvaluate_UnfinishedFixtureStaysUnresolved(t *testing.T) {
	t.Parallel()

	b := Bet{Market: "Resultado final", Label: "Ganará Real Madrid"}
	live := finishedResult(2, 0)
	live.Status = "2H"

	verdict := Evaluate(b, live, fixture.Stats{})
	if verdict.Resolved {
		t.Fatalf("live fixture must not resolve: %+v", verdict)
	}
}

func TestEvaluate_GoalsOverUnder(t *testing.T) {
	t.Parallel()

	over := Bet{Market: "Goles totales", Label: "Más de 2.5 goles"}
	under := Bet{Market: "Goles totales", Label: "Menos de 2.5 goles"}

	if verdict := Evaluate(over, finishedResult(2, 1), fixture.Stats{}); !verdict.Won {
		t.Fatalf("3 goals over 2.5: %+v", verdict)
	}
	if verdict := Evaluate(over, finishedResult(1, 1), fixture.Stats{}); verdict.Won {
		t.Fatalf("2 goals over 2.5 must lose: %+v", verdict)
	}
	if verdict := Evaluate(under, finishedResult(1, 1), fixture.Stats{}); !verdict.Won {
		t.Fatalf("2 goals under 2.5: %+v", verdict)
	}
}

func TestEvaluate_CornersAndCards(t *testing.T) {
	t.Parallel()

	stats := fixture.Stats{
		Home: fixture.TeamStats{Corners: 6, YellowCards: 2, RedCards: 1},
		Away: fixture.TeamStats{Corners: 4, YellowCards: 1},
	}

	corners := Bet{Market: "Córners", Label: "Más de 9.5 córners"}
	if verdict := Evaluate(corners, finishedResult(0, 0), stats); !verdict.Won {
		t.Fatalf("10 corners over 9.5: %+v", verdict)
	}

	cards := Bet{Market: "Tarjetas", Label: "Menos de 4.5 tarjetas"}
	if verdict := Evaluate(cards, finishedResult(0, 0), stats); !verdict.Won {
		t.Fatalf("4 cards under 4.5: %+v", verdict)
	}
}

func TestEvaluate_ExactParityBothScore(t *testing.T) {
	t.Parallel()

	exact := Bet{Market: "Goles totales", Label: "Exactamente 3 goles"}
	if verdict := Evaluate(exact, finishedResult(2, 1), fixture.Stats{}); !verdict.Won {
		t.Fatalf("exact 3: %+v", verdict)
	}
	if verdict := Evaluate(exact, finishedResult(2, 2), fixture.Stats{}); verdict.Won {
		t.Fatalf("exact 3 with 4 goals: %+v", verdict)
	}

	odd := Bet{Market: "Par/Impar", Label: "Impar"}
	if verdict := Evaluate(odd, finishedResult(2, 1), fixture.Stats{}); !verdict.Won {
		t.Fatalf("3 goals is odd: %+v", verdict)
	}
	if verdict := Evaluate(odd, finishedResult(0, 0), fixture.Stats{}); verdict.Won {
		t.Fatalf("0 goals is even: %+v", verdict)
	}

	both := Bet{Market: "Ambos marcan", Label: "Sí"}
	if verdict := Evaluate(both, finishedResult(1, 2), fixture.Stats{}); !verdict.Won {
		t.Fatalf("both scored: %+v", verdict)
	}
	if verdict := Evaluate(both, finishedResult(3, 0), fixture.Stats{}); verdict.Won {
		t.Fatalf("away blank: %+v", verdict)
	}
}

func TestEvaluate_UnparseableLabelNeedsReview(t *testing.T) {
	t.Parallel()

	b := Bet{Market: "Primer goleador", Label: "Mbappé"}
	verdict := Evaluate(b, finishedResult(2, 0), fixture.Stats{})
	if !verdict.Resolved || verdict.Won || !verdict.NeedsReview {
		t.Fatalf("unparseable label must resolve lost with review flag: %+v", verdict)
	}
}

func TestPotentialWinAndProfit(t *testing.T) {
	t.Parallel()

	if got := PotentialWin(10, 2.5); got != 25 {
		t.Fatalf("potential win: got=%d want=25", got)
	}

	won := Bet{Amount: 10, Odd: 2.5, Status: StatusWon}
	if got := won.Profit(); got != 15 {
		t.Fatalf("won profit: got=%d want=15", got)
	}

	lost := Bet{Amount: 10, Odd: 2.5, Status: StatusLost}
	if got := lost.Profit(); got != -10 {
		t.Fatalf("lost profit: got=%d want=-10", got)
	}

	pending := Bet{Amount: 10, Odd: 2.5, Status: StatusPending}
	if got := pending.Profit(); got != 0 {
		t.Fatalf("pending profit: got=%d want=0", got)
	}
}
