package usecases

import "context"

// CurrentWeekSource returns the newest published data week.
type CurrentWeekSource interface {
	CurrentWeek(ctx context.Context) (int, error)
}

// ReadMetrics counts dataset reads by source.
type ReadMetrics interface {
	DatasetRead(dataset, source string)
}

type nopReadMetrics struct{}

func (nopReadMetrics) DatasetRead(string, string) {}
