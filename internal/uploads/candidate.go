package uploads

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// CandidateFromPart reads a multipart file into a Candidate. The content type
// comes from the part header, sniffed from the payload when absent or generic.
func CandidateFromPart(fh *multipart.FileHeader) (*Candidate, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	return &Candidate{
		Filename:    fh.Filename,
		ContentType: DetectContentType(fh.Header.Get("Content-Type"), data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// DetectContentType returns declared unless it is empty or application/octet-stream.
func DetectContentType(declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}
