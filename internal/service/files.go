package service

import "printshop/internal/slicer"

// FileService exposes the slicer parsers. It holds no state; parsing never
// fails, problems are described in the report.
type FileService struct{}

func NewFileService() *FileService { return &FileService{} }

func (s *FileService) AnalyzeFile(filename string, data []byte) slicer.Report {
	return slicer.Analyze(filename, data)
}
