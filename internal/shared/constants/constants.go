package constants

import "io/fs"

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultStoreKey is the fixed identifier answers are persisted under.
	DefaultStoreKey = "cybersecurity-assessment"
	// StandardMaxValue is the top of the answer scale for regular questions.
	StandardMaxValue = 3
	// PolicyMaxValue is the top of the answer scale for policy-maturity questions.
	PolicyMaxValue = 4
)

const (
	// DocumentGapLimit caps the gaps listed per requirement in compliance documents.
	DocumentGapLimit = 5
	// DocumentRecommendationLimit caps the recommendations listed per requirement in compliance documents.
	DocumentRecommendationLimit = 3
	// PDFGapLimit caps the gaps summarized per requirement in the compliance PDF.
	PDFGapLimit = 2
)
