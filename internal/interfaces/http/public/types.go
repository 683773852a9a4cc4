package public

import (
	"time"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

type locationPayload struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}

type storeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Location    locationPayload `json:"location"`
	Photo       string          `json:"photo"`
}

func (req storeRequest) input() domain.StoreInput {
	return domain.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Address:     req.Location.Address,
		Coordinates: req.Location.Coordinates,
		PhotoRef:    req.Photo,
	}
}

type reviewRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gravatar string `json:"gravatar"`
}

type reviewResponse struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Rating    int           `json:"rating"`
	CreatedAt time.Time     `json:"createdAt"`
	StoreID   string        `json:"storeId"`
	Author    *userResponse `json:"author"`
}

type storeResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
	Location    locationPayload  `json:"location"`
	Photo       string           `json:"photo,omitempty"`
	AuthorID    string           `json:"authorId,omitempty"`
	Author      *userResponse    `json:"author,omitempty"`
	Reviews     []reviewResponse `json:"reviews,omitempty"`
}

type storeListResponse struct {
	Stores []storeResponse `json:"stores"`
	Page   int             `json:"page"`
	Pages  int             `json:"pages"`
	Count  int64           `json:"count"`
}

type tagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type tagViewResponse struct {
	Tag    string             `json:"tag,omitempty"`
	Tags   []tagCountResponse `json:"tags"`
	Stores []storeResponse    `json:"stores"`
}

type storeSummaryResponse struct {
	ID            string  `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Photo         string  `json:"photo,omitempty"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

type heartsResponse struct {
	Hearts []string `json:"hearts"`
}

type photoResponse struct {
	Photo string `json:"photo"`
}

// buildUserResponse は公開してよいユーザー属性だけを DTO に詰める。
func buildUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{ID: u.ID, Name: u.Name, Gravatar: u.Gravatar()}
}

func buildReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		Text:      r.Text,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		StoreID:   r.StoreID,
		Author:    buildUserResponse(r.Author),
	}
}

// buildStoreResponse は Store ドメインモデルを JSON DTO に変換する。populate 済みなら著者とレビューも含める。
func buildStoreResponse(s domain.Store) storeResponse {
	resp := storeResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Tags:        s.Tags,
		Location: locationPayload{
			Type:        s.Location.Type,
			Coordinates: []float64{s.Location.Longitude(), s.Location.Latitude()},
			Address:     s.Location.Address,
		},
		Photo:    s.PhotoRef,
		AuthorID: s.AuthorID,
		Author:   buildUserResponse(s.Author),
	}
	if !s.CreatedAt.IsZero() {
		created := s.CreatedAt
		resp.CreatedAt = &created
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	if len(s.Reviews) > 0 {
		resp.Reviews = make([]reviewResponse, 0, len(s.Reviews))
		for _, r := range s.Reviews {
			resp.Reviews = append(resp.Reviews, buildReviewResponse(r))
		}
	}
	return resp
}

func buildStoreResponses(stores []domain.Store) []storeResponse {
	items := make([]storeResponse, 0, len(stores))
	for _, s := range stores {
		items = append(items, buildStoreResponse(s))
	}
	return items
}

func buildTagCounts(tags []domain.TagCount) []tagCountResponse {
	items := make([]tagCountResponse, 0, len(tags))
	for _, t := range tags {
		items = append(items, tagCountResponse{Tag: t.Tag, Count: t.Count})
	}
	return items
}

func buildStoreSummaries(top []domain.StoreSummary) []storeSummaryResponse {
	items := make([]storeSummaryResponse, 0, len(top))
	for _, s := range top {
		items = append(items, storeSummaryResponse{
			ID:            s.ID,
			Slug:          s.Slug,
			Name:          s.Name,
			Photo:         s.PhotoRef,
			AverageRating: s.AverageRating,
			ReviewCount:   s.ReviewCount,
		})
	}
	return items
}
