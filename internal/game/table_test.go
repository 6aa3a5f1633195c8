package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-tables/internal/randutil"
)

func TestNewTable(t *testing.T) {
	table := NewTable("abcd", "", DefaultConfig())

	assert.Equal(t, "abcd", table.Code)
	assert.Equal(t, "abcd", table.Name, "name defaults to the code")
	assert.Equal(t, -1, table.Button())
	assert.Nil(t, table.Actor())
	assert.False(t, table.InProgress())
	assert.False(t, table.Concluded())
}

func TestJoinIsIdempotent(t *testing.T) {
	table := NewTable("abcd", "Friday", DefaultConfig())

	p := table.Join("a", "Alice")
	again := table.Join("a", "")

	assert.Same(t, p, again)
	assert.Equal(t, "Alice", again.Name)
	assert.Len(t, table.Players(), 1)
	assert.Equal(t, 1000, p.Chips)
	assert.Equal(t, -1, p.Seated)
}

func TestSeat(t *testing.T) {
	table := NewTable("abcd", "Friday", DefaultConfig(), WithRNG(randutil.New(1)))
	table.Join("a", "Alice")
	table.Join("b", "Bob")
	table.Join("c", "Carol")

	started, err := table.Seat("a", 0)
	require.NoError(t, err)
	assert.False(t, started)

	_, err = table.Seat("b", 0)
	assert.ErrorIs(t, err, ErrSeatTaken)
	_, err = table.Seat("a", 1)
	assert.ErrorIs(t, err, ErrAlreadySeated)
	_, err = table.Seat("b", 9)
	assert.ErrorIs(t, err, ErrInvalidSeat)
	_, err = table.Seat("b", -1)
	assert.ErrorIs(t, err, ErrInvalidSeat)
	_, err = table.Seat("nobody", 1)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	started, err = table.Seat("b", 3)
	require.NoError(t, err)
	assert.True(t, started, "second seated player starts the hand")
	assert.True(t, table.InProgress())
	assert.Equal(t, 0, table.Button())

	started, err = table.Seat("c", 5)
	require.NoError(t, err)
	assert.False(t, started)
	assert.False(t, table.Player("c").InHand, "late seat waits for the next hand")
	assert.Len(t, table.HoleCards(), 2)
	assert.Equal(t, map[int]string{0: "a", 3: "b", 5: "c"}, table.Snapshot().PlayerPositions)
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	table := newTestTable(t, withPlayers(1))
	assert.ErrorIs(t, table.Start(), ErrNotEnoughPlayers)

	table = newTestTable(t)
	assert.ErrorIs(t, table.Start(), ErrHandInProgress)
}

func TestStartHeadsUpBlinds(t *testing.T) {
	table := newTestTable(t)

	p0, p1 := table.Player("p0"), table.Player("p1")
	assert.Equal(t, 0, table.Button())
	assert.Equal(t, 5, p0.PlayedChips, "button posts the small blind heads-up")
	assert.Equal(t, 10, p1.PlayedChips)
	assert.Equal(t, "p0", actorID(t, table), "button acts first preflop heads-up")
	assert.Equal(t, 10, table.ToCall())
	assert.Equal(t, 10, table.MinRaise())
	assert.Equal(t, Preflop, table.Street())
	assert.Len(t, p0.HoleCards, 2)
	assert.Len(t, p1.HoleCards, 2)
	assert.Empty(t, table.Board())
	assert.Equal(t, 2000, chipTotal(table))
}

func TestStartThreeHandedBlinds(t *testing.T) {
	table := newTestTable(t, withPlayers(3))

	assert.Equal(t, 0, table.Player("p0").PlayedChips)
	assert.Equal(t, 5, table.Player("p1").PlayedChips)
	assert.Equal(t, 10, table.Player("p2").PlayedChips)
	assert.Equal(t, "p0", actorID(t, table), "seat after the big blind acts first")
}

func TestButtonRotates(t *testing.T) {
	table := newTestTable(t, withPlayers(3))
	require.NoError(t, table.Fold("p0"))
	require.NoError(t, table.Fold("p1"))
	require.True(t, table.Concluded())

	require.NoError(t, table.Start())
	assert.Equal(t, 1, table.Button())
	assert.Equal(t, 5, table.Player("p2").PlayedChips)
	assert.Equal(t, 10, table.Player("p0").PlayedChips)
	assert.Equal(t, "p1", actorID(t, table))
}

func TestNotYourTurnLeavesStateUnchanged(t *testing.T) {
	table := newTestTable(t)
	before := table.Snapshot()

	assert.ErrorIs(t, table.CheckCall("p1"), ErrNotYourTurn)
	assert.ErrorIs(t, table.Raise("p1", 40), ErrNotYourTurn)
	assert.ErrorIs(t, table.Fold("p1"), ErrNotYourTurn)
	assert.ErrorIs(t, table.Fold("ghost"), ErrNotYourTurn)

	assert.Equal(t, before, table.Snapshot())
}

func TestStreetProgression(t *testing.T) {
	table := newTestTable(t)

	require.NoError(t, table.CheckCall("p0"))
	assert.Equal(t, "p1", actorID(t, table), "big blind keeps the option")
	assert.Equal(t, Preflop, table.Street())

	require.NoError(t, table.CheckCall("p1"))
	assert.Equal(t, Flop, table.Street())
	assert.Len(t, table.Board(), 3)
	assert.Equal(t, 20, table.Pot())
	assert.Equal(t, 0, table.ToCall())
	assert.Equal(t, "p1", actorID(t, table), "first seat after the button acts post-flop")

	require.NoError(t, table.CheckCall("p1"))
	require.NoError(t, table.CheckCall("p0"))
	assert.Equal(t, Turn, table.Street())
	assert.Len(t, table.Board(), 4)

	require.NoError(t, table.CheckCall("p1"))
	require.NoError(t, table.CheckCall("p0"))
	assert.Equal(t, River, table.Street())
	assert.Len(t, table.Board(), 5)

	require.NoError(t, table.CheckCall("p1"))
	require.NoError(t, table.CheckCall("p0"))
	assert.True(t, table.Concluded())
	assert.Nil(t, table.Actor())
	assert.Equal(t, 2000, chipTotal(table))
}

func TestRaiseValidation(t *testing.T) {
	table := newTestTable(t)

	assert.ErrorIs(t, table.Raise("p0", 10), ErrInvalidRaise, "must exceed the bet")
	assert.ErrorIs(t, table.Raise("p0", 15), ErrInvalidRaise, "below the minimum increment")
	assert.ErrorIs(t, table.Raise("p0", 1006), ErrInsufficientChips)
	assert.Equal(t, 5, table.Player("p0").PlayedChips)

	require.NoError(t, table.Raise("p0", 20))
	assert.Equal(t, 20, table.ToCall())
	assert.Equal(t, 10, table.MinRaise())
	assert.Equal(t, 980, table.Player("p0").Chips)
	assert.Equal(t, "p1", actorID(t, table))

	require.NoError(t, table.Raise("p1", 45))
	assert.Equal(t, 25, table.MinRaise(), "last full raise sets the increment")
	assert.ErrorIs(t, table.Raise("p0", 60), ErrInvalidRaise)
	require.NoError(t, table.Raise("p0", 70))
	assert.Equal(t, 2000, chipTotal(table))
}

func TestShortAllInRaise(t *testing.T) {
	table := newTestTable(t, withChips(0, 18))

	require.NoError(t, table.Raise("p0", 18), "all-in below a full raise is allowed")
	p0 := table.Player("p0")
	assert.True(t, p0.AllIn)
	assert.Equal(t, 0, p0.Chips)
	assert.Equal(t, 18, table.ToCall())
	assert.Equal(t, 10, table.MinRaise(), "short all-in does not change the increment")

	require.NoError(t, table.CheckCall("p1"))
	assert.True(t, table.AllIn())
	assert.Nil(t, table.Actor())
	assert.Equal(t, []Street{Flop, Turn, River}, table.RemainingStreets())
}

func TestRaiseReopensAction(t *testing.T) {
	table := newTestTable(t, withPlayers(3))

	require.NoError(t, table.CheckCall("p0"))
	require.NoError(t, table.CheckCall("p1"))
	assert.Equal(t, "p2", actorID(t, table))

	require.NoError(t, table.Raise("p2", 30))
	assert.Equal(t, "p0", actorID(t, table), "raise reopens the action")
	require.NoError(t, table.CheckCall("p0"))
	assert.Equal(t, "p1", actorID(t, table))
	assert.Equal(t, Preflop, table.Street())
	require.NoError(t, table.CheckCall("p1"))

	assert.Equal(t, Flop, table.Street())
	assert.Equal(t, 90, table.Pot())
	assert.Equal(t, "p1", actorID(t, table))
}

func TestTurnSkipsFoldedAndAllIn(t *testing.T) {
	table := newTestTable(t, withPlayers(4), withChips(0, 50))

	// p3 is first to act: seats 1 and 2 hold the blinds.
	require.NoError(t, table.Fold("p3"))
	require.NoError(t, table.Raise("p0", 50))
	require.NoError(t, table.CheckCall("p1"))
	require.NoError(t, table.CheckCall("p2"))

	assert.Equal(t, Flop, table.Street())
	assert.Equal(t, "p1", actorID(t, table))
	require.NoError(t, table.CheckCall("p1"))
	assert.Equal(t, "p2", actorID(t, table), "folded p3 and all-in p0 are skipped")
	require.NoError(t, table.CheckCall("p2"))
	assert.Equal(t, Turn, table.Street())
}

func TestFoldToOne(t *testing.T) {
	table := newTestTable(t)

	require.NoError(t, table.Fold("p0"))

	assert.True(t, table.Concluded())
	assert.False(t, table.InProgress())
	assert.Nil(t, table.Actor())
	require.Len(t, table.Winners(), 1)
	assert.Equal(t, "p1", table.Winners()[0].ID)
	assert.Equal(t, 995, table.Player("p0").Chips)
	assert.Equal(t, 1005, table.Player("p1").Chips)
	assert.Equal(t, []PotResult{{Amount: 15, Winners: []string{"p1"}}}, table.Results())
	assert.Equal(t, 0, table.Pot())
}

func TestFoldToOneOnLaterStreet(t *testing.T) {
	table := newTestTable(t, withPlayers(3))
	require.NoError(t, table.CheckCall("p0"))
	require.NoError(t, table.CheckCall("p1"))
	require.NoError(t, table.CheckCall("p2"))
	require.Equal(t, Flop, table.Street())

	require.NoError(t, table.Raise("p1", 20))
	require.NoError(t, table.Fold("p2"))
	require.NoError(t, table.Fold("p0"))

	assert.Equal(t, Flop, table.Street(), "no further streets are dealt")
	require.Len(t, table.Winners(), 1)
	assert.Equal(t, "p1", table.Winners()[0].ID)
	assert.Equal(t, 1020, table.Player("p1").Chips)
	assert.Equal(t, 3000, chipTotal(table))
}

func TestAllInConvergence(t *testing.T) {
	table := newTestTable(t)

	require.NoError(t, table.Raise("p0", 1000))
	require.NoError(t, table.CheckCall("p1"))

	assert.True(t, table.AllIn())
	assert.Nil(t, table.Actor())
	assert.Equal(t, []Street{Flop, Turn, River}, table.RemainingStreets())
	assert.ErrorIs(t, table.CheckCall("p0"), ErrNotYourTurn)
	assert.ErrorIs(t, table.FindWinner(), ErrShowdownNotReady)

	for i, want := range []int{3, 4, 5} {
		require.NoError(t, table.DealOneCard(), "reveal %d", i)
		assert.Len(t, table.Board(), want)
	}
	assert.ErrorIs(t, table.DealOneCard(), ErrNoStreetToDeal)
	assert.Empty(t, table.RemainingStreets())

	require.NoError(t, table.FindWinner())
	assert.True(t, table.Concluded())
	assert.NotEmpty(t, table.Winners())
	assert.ErrorIs(t, table.FindWinner(), ErrShowdownNotReady, "a hand is settled once")
	assert.Equal(t, 2000, chipTotal(table))
}

func TestAllInPreflopWithFold(t *testing.T) {
	table := newTestTable(t, withPlayers(3))

	require.NoError(t, table.Raise("p0", 1000))
	require.NoError(t, table.Fold("p1"))
	require.NoError(t, table.CheckCall("p2"))

	assert.True(t, table.AllIn())
	assert.Equal(t, Preflop, table.Street())
	assert.Equal(t, 2005, table.Pot())
	runOut(t, table)
	assert.Equal(t, 3000, chipTotal(table))
}

func TestDealOneCardRequiresAllIn(t *testing.T) {
	table := newTestTable(t)
	assert.ErrorIs(t, table.DealOneCard(), ErrNoStreetToDeal)
	assert.Empty(t, table.RemainingStreets())
}

func TestShowdownStackedDeck(t *testing.T) {
	table := newTestTable(t, withStacked("AsAd 7c2d Kh9s4c 3h Jd"))

	require.NoError(t, table.CheckCall("p0"))
	require.NoError(t, table.CheckCall("p1"))
	for range 3 {
		require.NoError(t, table.CheckCall("p1"))
		require.NoError(t, table.CheckCall("p0"))
	}

	require.True(t, table.Concluded())
	require.Len(t, table.Winners(), 1)
	assert.Equal(t, "p1", table.Winners()[0].ID)
	assert.Equal(t, 1010, table.Player("p1").Chips)
	assert.Equal(t, 990, table.Player("p0").Chips)
	require.Len(t, table.Results(), 1)
	assert.NotEmpty(t, table.Results()[0].Hand)
	assert.True(t, table.Player("p0").ShowCards)
	assert.True(t, table.Player("p1").ShowCards)
}

func TestSplitPotOddChip(t *testing.T) {
	table := newTestTable(t, withPlayers(3), withEvaluator(tieEvaluator{}))

	require.NoError(t, table.CheckCall("p0"))
	require.NoError(t, table.Fold("p1"))
	require.NoError(t, table.CheckCall("p2"))
	require.Equal(t, 25, table.Pot())
	for range 3 {
		require.NoError(t, table.CheckCall("p2"))
		require.NoError(t, table.CheckCall("p0"))
	}

	require.True(t, table.Concluded())
	assert.Equal(t, 1003, table.Player("p2").Chips, "odd chip goes left of the button")
	assert.Equal(t, 1002, table.Player("p0").Chips)
	assert.Equal(t, 995, table.Player("p1").Chips)
	assert.Len(t, table.Winners(), 2)
}

func TestSidePotShowdown(t *testing.T) {
	table := newTestTable(t,
		withPlayers(3),
		withChips(0, 100), withChips(1, 300), withChips(2, 300),
		withEvaluator(rankedEvaluator{"p0", "p1", "p2"}),
	)

	require.NoError(t, table.Raise("p0", 100))
	require.NoError(t, table.Raise("p1", 300))
	require.NoError(t, table.CheckCall("p2"))
	require.True(t, table.AllIn())
	runOut(t, table)

	assert.Equal(t, 300, table.Player("p0").Chips, "short stack wins only the main pot")
	assert.Equal(t, 400, table.Player("p1").Chips)
	assert.Equal(t, 0, table.Player("p2").Chips)
	assert.Equal(t, []PotResult{
		{Amount: 300, Winners: []string{"p0"}, Hand: "ranked"},
		{Amount: 400, Winners: []string{"p1"}, Hand: "ranked"},
	}, table.Results())
	assert.Len(t, table.Winners(), 2)
}

func TestLeaveByActor(t *testing.T) {
	table := newTestTable(t, withPlayers(3))
	total := chipTotal(table)

	require.NoError(t, table.Leave("p0"))

	p0 := table.Player("p0")
	require.NotNil(t, p0, "a dealt-in player stays until the hand resets")
	assert.True(t, p0.Folded)
	assert.Equal(t, -1, p0.Seated)
	assert.NotContains(t, table.Snapshot().PlayerPositions, 0)
	assert.Equal(t, "p1", actorID(t, table))
	assert.Equal(t, total, chipTotal(table))

	require.NoError(t, table.Fold("p1"))
	assert.Equal(t, "p2", table.Winners()[0].ID)

	table.ResetGame()
	assert.Nil(t, table.Player("p0"))
	assert.Len(t, table.Players(), 2)
}

func TestLeaveEndsHeadsUpHand(t *testing.T) {
	table := newTestTable(t)

	require.NoError(t, table.Leave("p1"))

	require.True(t, table.Concluded())
	assert.Equal(t, "p0", table.Winners()[0].ID)
	assert.Equal(t, 1010, table.Player("p0").Chips)
	assert.Equal(t, 2000, chipTotal(table))
}

func TestLeaveBeforeDealt(t *testing.T) {
	table := newTestTable(t)
	table.Join("late", "Late")
	_, err := table.Seat("late", 4)
	require.NoError(t, err)

	require.NoError(t, table.Leave("late"))
	assert.Nil(t, table.Player("late"))
	assert.NotContains(t, table.Snapshot().PlayerPositions, 4)
	assert.ErrorIs(t, table.Leave("late"), ErrPlayerNotFound)
}

func TestResetGameIsIdempotent(t *testing.T) {
	table := newTestTable(t)
	require.NoError(t, table.Fold("p0"))

	table.ResetGame()
	once := table.Snapshot()
	table.ResetGame()
	twice := table.Snapshot()

	assert.Equal(t, once, twice)
	assert.False(t, twice.IsStarted)
	assert.Empty(t, twice.Winner)
	assert.Equal(t, 0, twice.Button, "button survives the reset")
	assert.Equal(t, 995, table.Player("p0").Chips)
	assert.Equal(t, 1005, table.Player("p1").Chips)
	assert.Equal(t, 0, table.Player("p0").Seated)
	assert.Empty(t, table.Player("p0").HoleCards)
}

func TestResetGameRefundsUnfinishedHand(t *testing.T) {
	table := newTestTable(t)
	require.NoError(t, table.Raise("p0", 40))

	table.ResetGame()

	assert.Equal(t, 1000, table.Player("p0").Chips)
	assert.Equal(t, 1000, table.Player("p1").Chips)
	assert.Equal(t, 0, table.Pot())
}

func TestAutoRebuy(t *testing.T) {
	table := newTestTable(t, withChips(0, 10), withEvaluator(rankedEvaluator{"p1"}))
	require.NoError(t, table.CheckCall("p0"))
	require.True(t, table.AllIn())
	runOut(t, table)
	require.Equal(t, 0, table.Player("p0").Chips)

	table.ResetGame()
	assert.Equal(t, 1000, table.Player("p0").Chips)
	assert.True(t, table.CanStart())
}

func TestNoRebuyLeavesBustedPlayerOut(t *testing.T) {
	table := newTestTable(t, withChips(0, 10), withAutoRebuy(false), withEvaluator(rankedEvaluator{"p1"}))
	require.NoError(t, table.CheckCall("p0"))
	runOut(t, table)

	table.ResetGame()
	assert.Equal(t, 0, table.Player("p0").Chips)
	assert.False(t, table.CanStart())
	assert.ErrorIs(t, table.Start(), ErrNotEnoughPlayers)
}

func TestChipConservation(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := randutil.New(seed)
		table := newTestTable(t, withPlayers(4), withChips(3, 120), withAutoRebuy(false))
		total := chipTotal(table)

	steps:
		for range 400 {
			switch {
			case table.Concluded():
				err := table.Start()
				if errors.Is(err, ErrNotEnoughPlayers) {
					break steps
				}
				require.NoError(t, err)
			case table.Actor() == nil:
				if len(table.RemainingStreets()) > 0 {
					require.NoError(t, table.DealOneCard())
				} else {
					require.NoError(t, table.FindWinner())
				}
			default:
				actor := table.Actor()
				switch rng.IntN(4) {
				case 0:
					_ = table.Fold(actor.ID)
				case 1:
					_ = table.Raise(actor.ID, table.ToCall()+table.MinRaise()*(1+rng.IntN(5)))
				case 2:
					_ = table.Raise(actor.ID, actor.Chips+actor.PlayedChips)
				default:
					_ = table.CheckCall(actor.ID)
				}
			}
			require.Equal(t, total, chipTotal(table), "seed %d", seed)
			if table.InProgress() && table.Actor() != nil {
				assert.True(t, table.Actor().CanAct(), "seed %d", seed)
			}
		}
	}
}
