package episode

import (
	"iter"
	"math/rand"

	"github.com/hupe1980/fewshot/featurebank"
)

// Sampler draws N-way K-shot episodes from a feature bank.
//
// Each episode picks Way distinct classes uniformly without replacement,
// then Shot+Query distinct rows per class, again uniformly without
// replacement (Fisher-Yates shuffle of the class's row indices, then a
// slice). All randomness comes from a single seeded source consumed in
// sampling order, so the full episode sequence is a deterministic function
// of the seed.
//
// A Sampler is not safe for concurrent use; its random source is stateful.
type Sampler[L comparable] struct {
	bank    *featurebank.Bank[L]
	cfg     Config
	rng     *rand.Rand
	classes []L
}

// NewSampler validates the configuration against the bank and returns a
// sampler. Validation is eager: a bank that cannot satisfy the episode
// shape fails here, before any episode is drawn.
func NewSampler[L comparable](bank *featurebank.Bank[L], cfg Config) (*Sampler[L], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ci := bank.Classes()
	if ci.NumClasses() < cfg.Way {
		return nil, &ErrInsufficientClasses{Available: ci.NumClasses(), Requested: cfg.Way}
	}

	required := cfg.Shot + cfg.Query
	for _, label := range ci.Labels() {
		if n := ci.Count(label); n < required {
			return nil, &ErrInsufficientExamples{Label: label, Available: n, Required: required}
		}
	}

	return &Sampler[L]{
		bank:    bank,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		classes: ci.Labels(),
	}, nil
}

// Config returns the sampler's configuration.
func (s *Sampler[L]) Config() Config { return s.cfg }

// Episodes returns a lazy sequence of cfg.Tasks index lists. Each list has
// length Way*(Shot+Query) and is grouped class-major: the first Shot+Query
// indices belong to the episode's first class, and so on. The collator
// relies on this convention.
//
// The sequence is one-shot: iterating consumes the sampler's random source.
// Call Reset to regenerate the identical sequence from the seed.
func (s *Sampler[L]) Episodes() iter.Seq[[]uint32] {
	return func(yield func([]uint32) bool) {
		for t := 0; t < s.cfg.Tasks; t++ {
			if !yield(s.next()) {
				return
			}
		}
	}
}

// Reset reseeds the sampler so Episodes replays the same sequence.
func (s *Sampler[L]) Reset() {
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
}

func (s *Sampler[L]) next() []uint32 {
	perClass := s.cfg.Shot + s.cfg.Query
	out := make([]uint32, 0, s.cfg.Way*perClass)

	perm := s.rng.Perm(len(s.classes))
	for _, ci := range perm[:s.cfg.Way] {
		indices := s.bank.Classes().Indices(s.classes[ci])
		s.rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		out = append(out, indices[:perClass]...)
	}

	return out
}

// Assemble fetches the sampled rows from the bank and collates them into an
// Episode. indices must follow the Episodes ordering convention.
func Assemble[L comparable](bank *featurebank.Bank[L], indices []uint32, cfg Config) (*Episode[L], error) {
	rows := make([]featurebank.Row[L], len(indices))
	for i, idx := range indices {
		row, err := bank.Get(int(idx))
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return Collate(rows, cfg.Way, cfg.Shot, cfg.Query)
}
