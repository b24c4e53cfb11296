package document

import (
	"encoding/json"
	"fmt"
	"time"

	domdoc "github.com/siamtext/docrank/internal/domain/document"
)

type documentDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary,omitempty"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func toDTO(d *domdoc.Document) documentDTO {
	return documentDTO{
		ID:        d.ID(),
		Name:      d.Name(),
		Summary:   d.Summary(),
		Category:  d.Category(),
		Tags:      d.Tags(),
		CreatedAt: d.CreatedAt(),
	}
}

func (dto *documentDTO) toDomain() domdoc.Document {
	return domdoc.New(dto.ID, dto.Name, dto.Summary, dto.Category, dto.Tags, dto.CreatedAt)
}

// parseDocumentList unwraps a JSON.GET "$" reply. The path query wraps the
// stored array in one more array level.
func parseDocumentList(raw []byte) ([]domdoc.Document, error) {
	var wrapped [][]documentDTO
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		// Tolerate an unwrapped array for data written without a path.
		var flat []documentDTO
		if err2 := json.Unmarshal(raw, &flat); err2 != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
		return dtosToDomain(flat), nil
	}
	if len(wrapped) == 0 {
		return nil, nil
	}
	return dtosToDomain(wrapped[0]), nil
}

func dtosToDomain(dtos []documentDTO) []domdoc.Document {
	docs := make([]domdoc.Document, len(dtos))
	for i := range dtos {
		docs[i] = dtos[i].toDomain()
	}
	return docs
}
