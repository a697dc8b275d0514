package contracts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

// TemplateInput carries the editable fields of a contract template.
type TemplateInput struct {
	Name        string
	Content     string
	EventTypeID *uuid.UUID
	IsDefault   bool
	IsActive    bool
}

// CreateTemplate authors a new template. When marked default, any previous
// default for the same scope is cleared first.
func (s *Service) CreateTemplate(ctx context.Context, ownerID uuid.UUID, in TemplateInput) (domain.ContractTemplate, error) {
	if err := validateTemplateInput(in); err != nil {
		return domain.ContractTemplate{}, err
	}

	template := domain.NewContractTemplate(ownerID, in.Name, in.Content, in.EventTypeID)
	template.IsDefault = in.IsDefault
	template.IsActive = in.IsActive

	if _, err := s.templates.GetBySlug(ctx, ownerID, template.Slug); err == nil {
		return domain.ContractTemplate{}, fmt.Errorf("template slug %q already in use: %w", template.Slug, domain.ErrConflict)
	}

	if in.IsDefault {
		if err := s.templates.ClearDefault(ctx, ownerID, in.EventTypeID); err != nil {
			return domain.ContractTemplate{}, err
		}
	}
	return s.templates.Create(ctx, template)
}

// UpdateTemplate edits a template independently of any contract.
func (s *Service) UpdateTemplate(ctx context.Context, ownerID, templateID uuid.UUID, in TemplateInput) (domain.ContractTemplate, error) {
	if err := validateTemplateInput(in); err != nil {
		return domain.ContractTemplate{}, err
	}

	template, err := s.ownedTemplate(ctx, ownerID, templateID)
	if err != nil {
		return domain.ContractTemplate{}, err
	}

	if in.IsDefault && !template.IsDefault {
		if err := s.templates.ClearDefault(ctx, ownerID, in.EventTypeID); err != nil {
			return domain.ContractTemplate{}, err
		}
	}

	template.Name = in.Name
	template.Slug = domain.Slugify(in.Name)
	template.Content = in.Content
	template.EventTypeID = in.EventTypeID
	template.IsDefault = in.IsDefault
	template.IsActive = in.IsActive
	return s.templates.Update(ctx, template)
}

// ListTemplates returns the owner's templates.
func (s *Service) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]domain.ContractTemplate, error) {
	return s.templates.ListByOwner(ctx, ownerID)
}

// DeleteTemplate removes a template. The owner's last active template
// cannot be deleted; contracts must always have something to generate
// from.
func (s *Service) DeleteTemplate(ctx context.Context, ownerID, templateID uuid.UUID) error {
	template, err := s.ownedTemplate(ctx, ownerID, templateID)
	if err != nil {
		return err
	}

	if template.IsActive {
		active, err := s.templates.CountActive(ctx, ownerID)
		if err != nil {
			return err
		}
		if active <= 1 {
			return fmt.Errorf("cannot delete the last active template: %w", domain.ErrValidation)
		}
	}

	if err := s.templates.Delete(ctx, templateID); err != nil {
		return err
	}
	s.logger.Info("template deleted", zap.String("template_id", templateID.String()))
	return nil
}

func (s *Service) ownedTemplate(ctx context.Context, ownerID, templateID uuid.UUID) (domain.ContractTemplate, error) {
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return domain.ContractTemplate{}, err
	}
	if template.OwnerID != ownerID {
		return domain.ContractTemplate{}, fmt.Errorf("template %s not owned by caller: %w", templateID, domain.ErrNotFound)
	}
	return template, nil
}

func validateTemplateInput(in TemplateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("template name is required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("template content is required: %w", domain.ErrValidation)
	}
	return nil
}
