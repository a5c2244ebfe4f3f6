package training

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type ClassMetrics struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type Report struct {
	TrainSamples int
	TestSamples  int
	Accuracy     float64
	Classes      []ClassMetrics
	MacroAvg     ClassMetrics
	WeightedAvg  ClassMetrics
	Iterations   int
	Converged    bool
	ModelVersion string
	ModelPath    string
}

func newReport(classNames []string, actual, predicted []int) Report {
	k := len(classNames)

	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}

	var hits int

	for i := range actual {
		confusion[actual[i]][predicted[i]]++

		if actual[i] == predicted[i] {
			hits++
		}
	}

	classes := make([]ClassMetrics, k)

	for c := range k {
		tp := confusion[c][c]
		support := lo.Sum(confusion[c])
		predictedAs := lo.SumBy(confusion, func(row []int) int { return row[c] })

		precision := ratio(tp, predictedAs)
		recall := ratio(tp, support)

		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall) //nolint:mnd
		}

		classes[c] = ClassMetrics{
			Name:      classNames[c],
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
	}

	total := len(actual)

	return Report{
		TestSamples: total,
		Accuracy:    ratio(hits, total),
		Classes:     classes,
		MacroAvg:    average("macro avg", classes, func(ClassMetrics) float64 { return 1 }),
		WeightedAvg: average("weighted avg", classes, func(m ClassMetrics) float64 { return float64(m.Support) }),
	}
}

func average(name string, classes []ClassMetrics, weight func(ClassMetrics) float64) ClassMetrics {
	totalWeight := lo.SumBy(classes, weight)

	mean := func(metric func(ClassMetrics) float64) float64 {
		if totalWeight == 0 {
			return 0
		}

		return lo.SumBy(classes, func(m ClassMetrics) float64 { return weight(m) * metric(m) }) / totalWeight
	}

	return ClassMetrics{
		Name:      name,
		Precision: mean(func(m ClassMetrics) float64 { return m.Precision }),
		Recall:    mean(func(m ClassMetrics) float64 { return m.Recall }),
		F1:        mean(func(m ClassMetrics) float64 { return m.F1 }),
		Support:   lo.SumBy(classes, func(m ClassMetrics) int { return m.Support }),
	}
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}

	return float64(a) / float64(b)
}

// String renders the accuracy and a per-class precision/recall/F1 table.
func (r Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Model Accuracy: %.4f\n\n", r.Accuracy)
	b.WriteString("Classification Report:\n")
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")

	for _, m := range r.Classes {
		writeRow(&b, m)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.TestSamples)
	writeRow(&b, r.MacroAvg)
	writeRow(&b, r.WeightedAvg)

	return b.String()
}

func writeRow(b *strings.Builder, m ClassMetrics) {
	fmt.Fprintf(b, "%12s %10.2f %10.2f %10.2f %10d\n", m.Name, m.Precision, m.Recall, m.F1, m.Support)
}
