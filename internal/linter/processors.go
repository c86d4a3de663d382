package linter

import "github.com/wharflab/hush/internal/processor"

// PreProcessors returns the chain applied to raw checker output before
// files are loaded. Excluded paths are never read.
func PreProcessors() *processor.Chain {
	return processor.NewChain(
		processor.NewPathNormalization(),
		processor.NewPathExclusionFilter(),
		processor.NewDeduplication(),
	)
}

// PostProcessors returns the chain applied to the surviving violations.
func PostProcessors() *processor.Chain {
	return processor.NewChain(
		processor.NewSorting(),
		processor.NewSnippetAttachment(),
	)
}
