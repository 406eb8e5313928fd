package fewshot

// Report is the outcome of an evaluation run. Accuracy is micro-averaged:
// every query prediction across every episode counts once.
//
// The confusion matrix and per-class metrics are indexed by episode-local
// class position (0..Way-1), aggregated across episodes. With shuffled class
// selection these positions are not tied to any particular class identity;
// they are still useful for spotting positional bias and for the macro-F1
// summary.
type Report struct {
	// Episodes is the number of episodes evaluated, including zero-query ones.
	Episodes int

	// Correct and Total count query predictions across all episodes.
	Correct int
	Total   int

	// Accuracy is Correct / Total.
	Accuracy float64

	// Confusion is a Way x Way matrix: Confusion[actual][predicted].
	Confusion [][]int

	// PerClass holds precision/recall/F1 per episode-local class position.
	PerClass []ClassMetrics

	// MacroF1 is the unweighted mean of per-class F1 scores.
	MacroF1 float64
}

// ClassMetrics summarizes predictions for one episode-local class position.
// A metric whose denominator is zero is reported as 0.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64

	// Support is the number of queries whose actual label was this position.
	Support int
}

// SlidingMean returns the mean of the last window values. If window <= 0 or
// exceeds len(values), all values are averaged. Returns ErrEmptyWindow when
// values is empty.
func SlidingMean(values []float64, window int) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyWindow
	}
	if window <= 0 || window > len(values) {
		window = len(values)
	}

	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}

// accumulator aggregates predictions as episodes stream in. It is not
// goroutine safe; the evaluation loop feeds it from a single goroutine.
type accumulator struct {
	way       int
	episodes  int
	correct   int
	total     int
	confusion [][]int

	// per-episode accuracies for the progress window
	episodeAccuracy []float64
}

func newAccumulator(way int) *accumulator {
	confusion := make([][]int, way)
	for i := range confusion {
		confusion[i] = make([]int, way)
	}
	return &accumulator{way: way, confusion: confusion}
}

// add records one episode's predictions against its actual query labels and
// returns how many were correct.
func (a *accumulator) add(actual, predicted []int) int {
	a.episodes++

	correct := 0
	for i, p := range predicted {
		a.confusion[actual[i]][p]++
		if p == actual[i] {
			correct++
		}
	}
	a.correct += correct
	a.total += len(predicted)

	if len(predicted) > 0 {
		a.episodeAccuracy = append(a.episodeAccuracy, float64(correct)/float64(len(predicted)))
	}
	return correct
}

// runningAccuracy averages per-episode accuracy over the trailing window.
func (a *accumulator) runningAccuracy(window int) (float64, bool) {
	mean, err := SlidingMean(a.episodeAccuracy, window)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// report finalizes the run. Returns ErrNoQueries when no prediction was
// made, since the accuracy ratio would be undefined.
func (a *accumulator) report() (*Report, error) {
	if a.total == 0 {
		return nil, ErrNoQueries
	}

	perClass := make([]ClassMetrics, a.way)
	macroF1 := 0.0
	for c := 0; c < a.way; c++ {
		tp := a.confusion[c][c]
		actual, predicted := 0, 0
		for j := 0; j < a.way; j++ {
			actual += a.confusion[c][j]
			predicted += a.confusion[j][c]
		}

		m := ClassMetrics{Support: actual}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			m.Recall = float64(tp) / float64(actual)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		perClass[c] = m
		macroF1 += m.F1
	}
	macroF1 /= float64(a.way)

	return &Report{
		Episodes:  a.episodes,
		Correct:   a.correct,
		Total:     a.total,
		Accuracy:  float64(a.correct) / float64(a.total),
		Confusion: a.confusion,
		PerClass:  perClass,
		MacroF1:   macroF1,
	}, nil
}
