package sequencer

// RoutingMode picks the destination of a single-mode fire.
type RoutingMode int

const (
	AllA RoutingMode = iota
	AllB
	Bernoulli
	Alternate
	TwoTwo
	Burst
	Probability
	PatternRoute
	NumRoutingModes
)

var routingNames = [NumRoutingModes]string{
	"All A", "All B", "Bernoulli", "Alternate",
	"Two-Two", "Burst", "Probability", "Pattern",
}

func (m RoutingMode) String() string {
	return routingNames[m.valid()]
}

func (m RoutingMode) valid() RoutingMode {
	if m < 0 || m >= NumRoutingModes {
		return AllA
	}
	return m
}

// Router chooses where a single-mode fire goes.
type Router func(l *Lane, rng Rand) Fire

var routers = [NumRoutingModes]Router{
	AllA:         routeAllA,
	AllB:         routeAllB,
	Bernoulli:    routeBernoulli,
	Alternate:    routeAlternate,
	TwoTwo:       routeTwoTwo,
	Burst:        routeBurst,
	Probability:  routeBernoulli,
	PatternRoute: routePattern,
}

// Route dispatches on the lane's routing mode.
func Route(l *Lane, rng Rand) Fire {
	return routers[l.Routing.valid()](l, rng)
}

func to(a bool) Fire {
	return Fire{A: a, B: !a}
}

func routeAllA(l *Lane, rng Rand) Fire {
	return Fire{A: true}
}

func routeAllB(l *Lane, rng Rand) Fire {
	return Fire{B: true}
}

// B with probability bias.
func routeBernoulli(l *Lane, rng Rand) Fire {
	return to(rng.Float64() >= l.Bias)
}

func routeAlternate(l *Lane, rng Rand) Fire {
	a := l.AlternateCounter%2 == 0
	l.AlternateCounter++
	return to(a)
}

func routeTwoTwo(l *Lane, rng Rand) Fire {
	a := (l.AlternateCounter/2)%2 == 0
	l.AlternateCounter++
	return to(a)
}

// Stays on one side and flips with probability bias*0.3 per fire.
func routeBurst(l *Lane, rng Rand) Fire {
	if rng.Float64() < l.Bias*0.3 {
		l.BurstToA = !l.BurstToA
	}
	return to(l.BurstToA)
}

// Even steps to A, odd steps to B.
func routePattern(l *Lane, rng Rand) Fire {
	return to(l.A.Step%2 == 0)
}
