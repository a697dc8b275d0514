// Package export produces the back-office XLSX view of a contract: the
// authorized quote with its resolved totals and the version history.
package export

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/contracts"
	"github.com/israelwong/zenly-studio-sub011/internal/domain"
	"github.com/israelwong/zenly-studio-sub011/internal/render"
)

const (
	quoteSheet    = "Cotización"
	versionsSheet = "Versiones"
)

type Service struct {
	contracts *contracts.Service
	logger    *zap.Logger
}

func NewService(contractService *contracts.Service, logger *zap.Logger) *Service {
	return &Service{
		contracts: contractService,
		logger:    logger.With(zap.String("service", "export")),
	}
}

// BuildWorkbook assembles the XLSX file for a contract. The exported
// amounts come from the same resolver output the rendered document uses,
// so the export cannot disagree with the printed contract.
func (s *Service) BuildWorkbook(ctx context.Context, ownerID, contractID uuid.UUID) (*excelize.File, error) {
	contract, rc, err := s.contracts.QuoteContext(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}
	versions, err := s.contracts.Versions(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := s.writeQuoteSheet(f, rc); err != nil {
		f.Close()
		return nil, err
	}
	if err := s.writeVersionsSheet(f, contract, versions); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

func (s *Service) writeQuoteSheet(f *excelize.File, rc domain.RenderContext) error {
	if _, err := f.NewSheet(quoteSheet); err != nil {
		return fmt.Errorf("failed to create quote sheet: %w", err)
	}

	rows := [][]any{
		{"Evento", rc.Event.Name},
		{"Cliente", rc.Contact.Name},
		{"Fecha", rc.Event.EventDate},
		{},
		{"Sección", "Categoría", "Concepto", "Cantidad", "Subtotal", "Cortesía"},
	}

	sections := append([]domain.QuoteSection(nil), rc.Quote...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	for _, section := range sections {
		categories := append([]domain.QuoteCategory(nil), section.Categories...)
		sort.SliceStable(categories, func(i, j int) bool { return categories[i].Order < categories[j].Order })
		for _, category := range categories {
			for _, item := range category.Items {
				subtotal := item.Subtotal
				complimentary := ""
				if item.IsComplimentary {
					subtotal = 0
					complimentary = "Sí"
				}
				rows = append(rows, []any{
					section.Name, category.Name, item.Name,
					render.QuantityDisplay(item), subtotal, complimentary,
				})
			}
		}
	}

	rows = append(rows,
		[]any{},
		[]any{"Precio", rc.Pricing.TotalBeforeDiscount},
		[]any{"Descuento", rc.Pricing.DiscountApplied},
		[]any{"Anticipo", rc.Pricing.AdvanceAmount},
		[]any{"Saldo", rc.Pricing.RemainingBalance},
		[]any{"TOTAL A PAGAR", rc.Pricing.TotalAfterDiscount},
	)

	return writeRows(f, quoteSheet, rows)
}

func (s *Service) writeVersionsSheet(f *excelize.File, contract domain.EventContract, versions []domain.ContractVersion) error {
	if _, err := f.NewSheet(versionsSheet); err != nil {
		return fmt.Errorf("failed to create versions sheet: %w", err)
	}

	rows := [][]any{
		{"Contrato", contract.ID.String(), "Estado", string(contract.Status)},
		{},
		{"Versión", "Estado", "Tipo de cambio", "Motivo", "Autor", "Fecha"},
	}
	for _, v := range versions {
		reason, author := "", ""
		if v.ChangeReason != nil {
			reason = *v.ChangeReason
		}
		if v.Author != nil {
			author = *v.Author
		}
		rows = append(rows, []any{
			v.Version, string(v.Status), string(v.ChangeType), reason, author,
			v.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return writeRows(f, versionsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", sheet, err)
		}
	}
	return nil
}
