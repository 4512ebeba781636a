package http

import (
	"time"

	"github.com/google/uuid"

	activityUC "github.com/jmakela/profiili/internal/application/usecase/activity"
	educationUC "github.com/jmakela/profiili/internal/application/usecase/education"
	workUC "github.com/jmakela/profiili/internal/application/usecase/work"
	"github.com/jmakela/profiili/internal/domain/activity"
	"github.com/jmakela/profiili/internal/domain/education"
	"github.com/jmakela/profiili/internal/domain/favorite"
	"github.com/jmakela/profiili/internal/domain/profile"
	"github.com/jmakela/profiili/internal/domain/work"
)

// Auth DTOs

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Profile DTOs

type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Headline  string    `json:"headline"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Headline string `json:"headline"`
	Bio      string `json:"bio"`
}

type CompetencyDTO struct {
	URI     string   `json:"uri"`
	Sources []string `json:"sources"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID,
		Headline:  p.Headline,
		Bio:       p.Bio,
		PhotoURL:  p.PhotoURL,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToCompetencyDTOs(competencies []profile.Competency) []CompetencyDTO {
	out := make([]CompetencyDTO, len(competencies))
	for i, c := range competencies {
		out[i] = CompetencyDTO{URI: c.URI, Sources: c.Sources}
	}
	return out
}

// Education DTOs

type CategoryRefDTO struct {
	ID          *uuid.UUID `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
}

func (d *CategoryRefDTO) ToPatch() *educationUC.CategoryPatch {
	if d == nil {
		return nil
	}
	return &educationUC.CategoryPatch{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

func ToCategoryDTO(c *education.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}
}

type EducationEntryPatchDTO struct {
	ID           *uuid.UUID `json:"id"`
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Competencies []string   `json:"competencies"`
}

func (d EducationEntryPatchDTO) ToPatch() educationUC.EntryPatch {
	p := educationUC.EntryPatch{
		Name:         d.Name,
		Description:  d.Description,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Competencies: d.Competencies,
	}
	if d.ID != nil {
		p.ID = *d.ID
	}
	return p
}

type EducationWriteRequest struct {
	Category *CategoryRefDTO          `json:"category"`
	Entries  []EducationEntryPatchDTO `json:"entries"`
}

func (req EducationWriteRequest) ToPatches() (*educationUC.CategoryPatch, []educationUC.EntryPatch) {
	patches := make([]educationUC.EntryPatch, len(req.Entries))
	for i, e := range req.Entries {
		patches[i] = e.ToPatch()
	}
	return req.Category.ToPatch(), patches
}

type EducationEntryDTO struct {
	ID           uuid.UUID  `json:"id"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Competencies []string   `json:"competencies"`
}

func ToEducationEntryDTO(e *education.Entry) EducationEntryDTO {
	return EducationEntryDTO{
		ID:           e.ID,
		CategoryID:   e.CategoryID,
		Name:         e.Name,
		Description:  e.Description,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		Competencies: e.Competencies,
	}
}

func ToEducationEntryDTOs(entries []*education.Entry) []EducationEntryDTO {
	out := make([]EducationEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = ToEducationEntryDTO(e)
	}
	return out
}

type CategoryEntriesDTO struct {
	Category *CategoryDTO        `json:"category"`
	Entries  []EducationEntryDTO `json:"entries"`
}

func ToCategoryEntriesDTOs(groups []educationUC.CategoryEntries) []CategoryEntriesDTO {
	out := make([]CategoryEntriesDTO, len(groups))
	for i, g := range groups {
		dto := CategoryEntriesDTO{Entries: ToEducationEntryDTOs(g.Entries)}
		if g.Category != nil {
			c := ToCategoryDTO(g.Category)
			dto.Category = &c
		}
		out[i] = dto
	}
	return out
}

type DeleteByIDsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// Work DTOs

type RolePatchDTO struct {
	ID           *uuid.UUID `json:"id"`
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Competencies []string   `json:"competencies"`
}

func (d RolePatchDTO) ToPatch() workUC.RolePatch {
	p := workUC.RolePatch{
		Name:         d.Name,
		Description:  d.Description,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Competencies: d.Competencies,
	}
	if d.ID != nil {
		p.ID = *d.ID
	}
	return p
}

func toRolePatches(dtos []RolePatchDTO) []workUC.RolePatch {
	if dtos == nil {
		return nil
	}
	patches := make([]workUC.RolePatch, len(dtos))
	for i, d := range dtos {
		patches[i] = d.ToPatch()
	}
	return patches
}

type CreateWorkplaceRequest struct {
	Name      string         `json:"name" binding:"required"`
	StartDate *time.Time     `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	Roles     []RolePatchDTO `json:"roles"`
}

type UpdateWorkplaceRequest struct {
	Name      string         `json:"name" binding:"required"`
	StartDate *time.Time     `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	Roles     []RolePatchDTO `json:"roles"`
}

type RoleDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Competencies []string   `json:"competencies"`
}

type WorkplaceDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Roles     []RoleDTO  `json:"roles"`
}

func ToWorkplaceDTO(w *work.Workplace) WorkplaceDTO {
	dto := WorkplaceDTO{
		ID:        w.ID,
		Name:      w.Name,
		StartDate: w.StartDate,
		EndDate:   w.EndDate,
		Roles:     make([]RoleDTO, len(w.Roles)),
	}
	for i, r := range w.Roles {
		dto.Roles[i] = RoleDTO{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			Competencies: r.Competencies,
		}
	}
	return dto
}

func ToWorkplaceDTOs(workplaces []*work.Workplace) []WorkplaceDTO {
	out := make([]WorkplaceDTO, len(workplaces))
	for i, w := range workplaces {
		out[i] = ToWorkplaceDTO(w)
	}
	return out
}

// Activity DTOs

type QualificationPatchDTO struct {
	ID           *uuid.UUID `json:"id"`
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Competencies []string   `json:"competencies"`
}

func (d QualificationPatchDTO) ToPatch() activityUC.QualificationPatch {
	p := activityUC.QualificationPatch{
		Name:         d.Name,
		Description:  d.Description,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Competencies: d.Competencies,
	}
	if d.ID != nil {
		p.ID = *d.ID
	}
	return p
}

func toQualificationPatches(dtos []QualificationPatchDTO) []activityUC.QualificationPatch {
	if dtos == nil {
		return nil
	}
	patches := make([]activityUC.QualificationPatch, len(dtos))
	for i, d := range dtos {
		patches[i] = d.ToPatch()
	}
	return patches
}

type CreateActivityRequest struct {
	Name           string                  `json:"name" binding:"required"`
	Qualifications []QualificationPatchDTO `json:"qualifications"`
}

type UpdateActivityRequest struct {
	Name           string                  `json:"name" binding:"required"`
	Qualifications []QualificationPatchDTO `json:"qualifications"`
}

type QualificationDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Competencies []string   `json:"competencies"`
}

type ActivityDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Qualifications []QualificationDTO `json:"qualifications"`
}

func ToActivityDTO(a *activity.Activity) ActivityDTO {
	dto := ActivityDTO{
		ID:             a.ID,
		Name:           a.Name,
		Qualifications: make([]QualificationDTO, len(a.Qualifications)),
	}
	for i, q := range a.Qualifications {
		dto.Qualifications[i] = QualificationDTO{
			ID:           q.ID,
			Name:         q.Name,
			Description:  q.Description,
			StartDate:    q.StartDate,
			EndDate:      q.EndDate,
			Competencies: q.Competencies,
		}
	}
	return dto
}

func ToActivityDTOs(activities []*activity.Activity) []ActivityDTO {
	out := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		out[i] = ToActivityDTO(a)
	}
	return out
}

// Favorite DTOs

type AddFavoriteRequest struct {
	Kind     string    `json:"kind" binding:"required"`
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

type FavoriteDTO struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	TargetID  uuid.UUID `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ToFavoriteDTO(f *favorite.Favorite) FavoriteDTO {
	return FavoriteDTO{
		ID:        f.ID,
		Kind:      f.Kind,
		TargetID:  f.TargetID,
		CreatedAt: f.CreatedAt,
	}
}

func ToFavoriteDTOs(favorites []*favorite.Favorite) []FavoriteDTO {
	out := make([]FavoriteDTO, len(favorites))
	for i, f := range favorites {
		out[i] = ToFavoriteDTO(f)
	}
	return out
}
