package sequencer

// CompetitionMode resolves a dual-mode conflict when both sides want to fire.
type CompetitionMode int

const (
	Independent CompetitionMode = iota
	Steal
	APriority
	BPriority
	Momentum
	Revenge
	Echo
	ValueTheft
	NumCompetitionModes
)

var competitionNames = [NumCompetitionModes]string{
	"Independent", "Steal", "A Priority", "B Priority",
	"Momentum", "Revenge", "Echo", "Value Theft",
}

func (m CompetitionMode) String() string {
	return competitionNames[m.valid()]
}

func (m CompetitionMode) valid() CompetitionMode {
	if m < 0 || m >= NumCompetitionModes {
		return Independent
	}
	return m
}

// Resolver decides a contested edge. edge is the side whose clock fired.
type Resolver func(l *Lane, edge Side, rng Rand) Side

var resolvers = [NumCompetitionModes]Resolver{
	Independent: resolveIndependent,
	Steal:       resolveSteal,
	APriority:   resolveAPriority,
	BPriority:   resolveBPriority,
	Momentum:    resolveMomentum,
	Revenge:     resolveRevenge,
	Echo:        resolveEcho,
	ValueTheft:  resolveValueTheft,
}

// Resolve returns the side that fires. A lone wanting side always wins; when
// neither wants, the edge's own side wins.
func Resolve(l *Lane, aWants, bWants bool, edge Side, rng Rand) Side {
	switch {
	case aWants && !bWants:
		return SideA
	case bWants && !aWants:
		return SideB
	case !aWants && !bWants:
		return edge
	}
	return resolvers[l.Competition.valid()](l, edge, rng)
}

func sideIf(aWins bool) Side {
	if aWins {
		return SideA
	}
	return SideB
}

func resolveIndependent(l *Lane, edge Side, rng Rand) Side {
	return edge
}

// B steals with probability bias.
func resolveSteal(l *Lane, edge Side, rng Rand) Side {
	return sideIf(rng.Float64() >= l.Bias)
}

func resolveAPriority(l *Lane, edge Side, rng Rand) Side {
	return sideIf(rng.Float64() < 0.5+l.Bias*0.5)
}

func resolveBPriority(l *Lane, edge Side, rng Rand) Side {
	return sideIf(rng.Float64() >= 0.5+l.Bias*0.5)
}

func resolveMomentum(l *Lane, edge Side, rng Rand) Side {
	aWins := rng.Float64() < l.MomentumA
	gain, loss := l.Bias*0.2, l.Bias*0.1
	if aWins {
		l.MomentumA = min(1, l.MomentumA+gain)
		l.MomentumB = max(0, l.MomentumB-loss)
	} else {
		l.MomentumB = min(1, l.MomentumB+gain)
		l.MomentumA = max(0, l.MomentumA-loss)
	}
	return sideIf(aWins)
}

// Last round's loser wins with probability 1 - bias*0.7.
func resolveRevenge(l *Lane, edge Side, rng Rand) Side {
	comeback := rng.Float64() < 1-l.Bias*0.7
	aWins := comeback != l.LastWinnerA
	l.LastWinnerA = aWins
	return sideIf(aWins)
}

// B wins with probability bias; the loser is left with a pending echo.
func resolveEcho(l *Lane, edge Side, rng Rand) Side {
	bWins := rng.Float64() < l.Bias
	if bWins {
		l.PendingEchoA = true
	} else {
		l.PendingEchoB = true
	}
	return sideIf(!bWins)
}

func resolveValueTheft(l *Lane, edge Side, rng Rand) Side {
	return sideIf(rng.Float64() >= l.Bias)
}
