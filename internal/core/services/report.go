package services

import (
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportReader = (*ReportService)(nil)

// ReportService reads output artifacts back for rendering.
type ReportService struct {
	parser *ResponseParser
}

// NewReportService creates a report reader. A nil parser uses the default.
func NewReportService(parser *ResponseParser) *ReportService {
	if parser == nil {
		parser = NewResponseParser()
	}
	return &ReportService{parser: parser}
}

// Read parses the artifact at path.
func (s *ReportService) Read(path string) (domain.ParseResult, error) {
	return ReadArtifact(path, s.parser)
}

// Band labels a risk score.
func (s *ReportService) Band(score int) string {
	return ScoreBand(score)
}
