package rawload

// Observer receives progress events from an extraction run.
// Events are delivered synchronously from the loading goroutine.
type Observer interface {
	FileStarted(file SourceFile, table string, rows int)
	ChunkDone(table string, outcome ChunkOutcome)
	FileDone(result FileResult, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FileStarted(SourceFile, string, int) {}
func (NopObserver) ChunkDone(string, ChunkOutcome)      {}
func (NopObserver) FileDone(FileResult, error)          {}

// Observers fans events out to each member in order.
type Observers []Observer

func (o Observers) FileStarted(file SourceFile, table string, rows int) {
	for _, obs := range o {
		obs.FileStarted(file, table, rows)
	}
}

func (o Observers) ChunkDone(table string, outcome ChunkOutcome) {
	for _, obs := range o {
		obs.ChunkDone(table, outcome)
	}
}

func (o Observers) FileDone(result FileResult, err error) {
	for _, obs := range o {
		obs.FileDone(result, err)
	}
}
