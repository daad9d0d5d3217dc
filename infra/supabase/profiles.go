package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// profileService implements app.ProfileService over the profiles table.
type profileService struct {
	client *Client
}

// NewProfileService creates a ProfileService backed by the REST API.
func NewProfileService(client *Client) *profileService {
	return &profileService{client: client}
}

func (s *profileService) ProfileByID(ctx context.Context, sess domain.Session, id string) (domain.Profile, error) {
	data, err := s.client.do(ctx, request{
		method:  http.MethodGet,
		path:    "/rest/v1/profiles?select=id,display_name&id=eq." + url.QueryEscape(id),
		token:   sess.AccessToken,
		headers: map[string]string{"Accept": "application/vnd.pgrst.object+json"},
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile: %w", err)
	}

	var row struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return domain.Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	return domain.Profile{ID: row.ID, DisplayName: domain.Author(row.DisplayName)}, nil
}
