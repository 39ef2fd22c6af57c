// Package analysis runs one rising-keyword analysis for a taxonomy selection.
//
// A run reads the enabled keywords of the selection, fetches their trend
// series through a trend.BatchClient, ranks them with the rising package and
// compares the ranking with the previous snapshot of the same selection.
// Chunks that fail transiently can be re-fetched with exponential backoff
// (Config.MaxAttempts). Completed rankings are written to the snapshot history
// in the background; Close waits for those writes.
//
// # Usage
//
//	analyzer, err := analysis.NewAnalyzer(store, fetcher, analysis.DefaultConfig(),
//	    analysis.WithHistory(history),
//	    analysis.WithProgressWriter(os.Stderr))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer analyzer.Close()
//
//	result, err := analyzer.Run(ctx, analysis.Request{
//	    Major: "화장품/미용",
//	    Sub:   "스킨케어",
//	    Start: start,
//	    End:   end,
//	})
package analysis
