package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autoreels/autoreels/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	youtube "google.golang.org/api/youtube/v3"
	"google.golang.org/api/option"
)

// ---------------------------------------------------------------------------
// YouTubeService — publishes rendered videos as Shorts
// Builds a per-upload OAuth client from the stored account tokens; the app
// credentials are process-wide, the refresh token is per account.
// ---------------------------------------------------------------------------

const maxTitleLength = 100

type YouTubeService struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
}

func NewYouTubeService(clientID, clientSecret string) *YouTubeService {
	return &YouTubeService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{youtube.YoutubeUploadScope},
		},
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// UploadResult holds the identifiers of a published video.
type UploadResult struct {
	VideoID string
	URL     string
}

// Upload downloads the rendered video from its public URL and uploads it to
// the account's channel as a public Short. The refresh token drives the token
// source, so expired access tokens renew transparently.
func (s *YouTubeService) Upload(ctx context.Context, account *models.Account, videoURL string, meta models.Metadata) (*UploadResult, error) {
	if account.RefreshToken == "" {
		return nil, fmt.Errorf("account %s has no refresh token", account.ID)
	}

	token := &oauth2.Token{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute), // force refresh
	}
	tokenSource := s.oauthConfig.TokenSource(ctx, token)

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	body, err := s.fetchVideo(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       truncateTitle(meta.Title),
			Description: buildDescription(meta),
			Tags:        splitHashtags(meta.Hashtags),
			CategoryId:  "22", // People & Blogs
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	uploaded, err := call.Media(body).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube upload failed: %w", err)
	}

	return &UploadResult{
		VideoID: uploaded.Id,
		URL:     fmt.Sprintf("https://youtube.com/shorts/%s", uploaded.Id),
	}, nil
}

func (s *YouTubeService) fetchVideo(ctx context.Context, videoURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("video download returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func truncateTitle(title string) string {
	if title == "" {
		return "Untitled Short"
	}
	if len(title) <= maxTitleLength {
		return title
	}
	return title[:maxTitleLength-3] + "..."
}

// buildDescription appends the #shorts marker so YouTube routes the video to
// the Shorts shelf even when the hashtags omit it.
func buildDescription(meta models.Metadata) string {
	desc := meta.Caption
	if meta.Hashtags != "" {
		desc += "\n\n" + meta.Hashtags
	}
	if !strings.Contains(strings.ToLower(desc), "#shorts") {
		desc += "\n\n#shorts"
	}
	return strings.TrimSpace(desc)
}

func splitHashtags(hashtags string) []string {
	fields := strings.Fields(hashtags)
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		tag := strings.TrimPrefix(f, "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
