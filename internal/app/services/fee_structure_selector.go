package services

import (
	"context"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

// structureStrategy is one pure lookup in the selection chain. A nil result
// with a nil error means "no match, try the next strategy".
type structureStrategy func(ctx context.Context) (*models.FeeStructure, error)

// selectStructure resolves the single applicable fee structure for a class
// and term. Strategies run in precedence order and the first match wins:
// exact term match through the class junction, then the YEAR-scoped
// fallback, then the deprecated direct class_id column. A class with no
// configured structure is a valid state and yields nil.
func (s *feeCalculationServiceImpl) selectStructure(ctx context.Context, schoolID, classID int64, term *models.Term) (*models.FeeStructure, error) {
	strategies := []structureStrategy{
		func(ctx context.Context) (*models.FeeStructure, error) {
			return s.structureRepo.FindTermScoped(ctx, schoolID, classID, term.ID)
		},
		func(ctx context.Context) (*models.FeeStructure, error) {
			return s.structureRepo.FindYearScoped(ctx, schoolID, classID, term.AcademicYearID, term.ID)
		},
		func(ctx context.Context) (*models.FeeStructure, error) {
			fs, err := s.structureRepo.FindLegacyByClassColumn(ctx, schoolID, classID, term.ID)
			if err != nil || fs == nil {
				return fs, err
			}

			// Self-heal: backfill the junction row so future lookups take
			// the primary path. The insert is idempotent.
			if err := s.structureRepo.InsertClassLink(ctx, fs.ID, classID); err != nil {
				return nil, err
			}
			logRepair("fee_structure_class_backfill", map[string]interface{}{
				"feeStructureId": fs.ID,
				"classId":        classID,
			})

			return fs, nil
		},
	}

	for _, strategy := range strategies {
		fs, err := strategy(ctx)
		if err != nil {
			return nil, err
		}
		if fs == nil {
			continue
		}

		fs.LineItems, err = s.structureRepo.GetLineItems(ctx, fs.ID)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}

	return nil, nil
}
