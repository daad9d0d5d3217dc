package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/log"
	"github.com/CrestNiraj12/ourjournal/infra/upload"
)

const (
	timeLayout        = "3:04 PM"
	postTimeLayout    = "January 2, 2006 at 3:04 PM"
	selectedDayLayout = "January 2, 2006"

	msgLoadFailed = "Failed to load posts. Please try refreshing."
)

type tabView struct {
	Label  string
	Href   string
	Active bool
}

type entryView struct {
	Title  string
	Author domain.Author
	Time   string
}

type dayView struct {
	Label      string
	ShortLabel string
	Href       string
	Count      int
	Active     bool
	Entries    []entryView
}

type postView struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	Time      string
	Author    domain.Author
	CanDelete bool
}

type feedView struct {
	Tabs           []tabView
	AllDaysHref    string
	AllDaysActive  bool
	Days           []dayView
	SelectedDay    string
	ClearDayHref   string
	Posts          []postView
	LoadError      string
	EmptyTitle     string
	EmptyHint      string
	ReturnQuery    string
	RefreshSeconds int
}

// feedQuery encodes a filter as the home page query string.
func feedQuery(f app.Filter) string {
	v := url.Values{}
	if f.Author != "" && f.Author != app.AllAuthors {
		v.Set("author", string(f.Author))
	}
	if f.Day != "" {
		v.Set("day", f.Day)
	}
	return v.Encode()
}

func feedHref(f app.Filter) string {
	if q := feedQuery(f); q != "" {
		return HomePath + "?" + q
	}
	return HomePath
}

// filterFromQuery reads author and day; unknown values mean no filter.
func (s *Server) filterFromQuery(q url.Values) app.Filter {
	f := app.Filter{Author: app.ParseAuthorFilter(q.Get("author"))}
	if day := q.Get("day"); day != "" {
		if _, ok := app.ParseDayKey(day, s.loc); ok {
			f.Day = day
		}
	}
	return f
}

// buildFeed derives the page from the full list: the timeline covers every
// post while the list shows only what passes the filter.
func (s *Server) buildFeed(posts []domain.Post, f app.Filter, userID string) feedView {
	posts = app.SortNewestFirst(posts)
	view := feedView{
		AllDaysHref:    feedHref(app.Filter{Author: f.Author}),
		AllDaysActive:  f.Day == "",
		ClearDayHref:   feedHref(app.Filter{Author: f.Author}),
		ReturnQuery:    feedQuery(f),
		RefreshSeconds: int(app.RefreshInterval.Seconds()),
	}

	for _, af := range app.AuthorFilters() {
		view.Tabs = append(view.Tabs, tabView{
			Label:  af.Label(),
			Href:   feedHref(app.Filter{Author: af, Day: f.Day}),
			Active: af == f.Author || (f.Author == "" && af == app.AllAuthors),
		})
	}

	for _, g := range app.GroupByDay(posts, s.now(), s.loc) {
		d := dayView{
			Label:      g.Label,
			ShortLabel: g.ShortLabel,
			Href:       feedHref(app.Filter{Author: f.Author, Day: app.ToggleDay(f.Day, g.Key)}),
			Count:      g.Count(),
			Active:     g.Key == f.Day,
		}
		for _, p := range g.Posts {
			d.Entries = append(d.Entries, entryView{Title: p.Title, Author: p.Author, Time: p.CreatedAt.In(s.loc).Format(timeLayout)})
		}
		view.Days = append(view.Days, d)
	}

	if t, ok := app.ParseDayKey(f.Day, s.loc); ok && f.Day != "" {
		view.SelectedDay = t.Format(selectedDayLayout)
	}

	for _, p := range f.Apply(posts, s.loc) {
		view.Posts = append(view.Posts, postView{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			ImageURL:  p.ImageURL,
			Time:      p.CreatedAt.In(s.loc).Format(postTimeLayout),
			Author:    p.Author,
			CanDelete: p.OwnedBy(userID),
		})
	}
	if len(view.Posts) == 0 {
		view.EmptyTitle, view.EmptyHint = f.EmptyMessage()
	}
	return view
}

// sessionOrRedirect returns the request's session. Without one it responds
// with the sign-in redirect, or a configuration error if there is no backend.
func (s *Server) sessionOrRedirect(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	if s.auth == nil || s.posts == nil {
		s.renderError(w, http.StatusInternalServerError, msgBackendMissing)
		return domain.Session{}, false
	}
	sess, ok := SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, SignInPath, http.StatusFound)
		return domain.Session{}, false
	}
	sess.DisplayName = app.ResolveDisplayName(r.Context(), s.profiles, sess)
	return sess, true
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrRedirect(w, r)
	if !ok {
		return
	}
	f := s.filterFromQuery(r.URL.Query())

	posts, err := s.posts.List(r.Context(), sess)
	var view feedView
	if err != nil {
		log.Warn.Printf("listing posts: %v", err)
		view = s.buildFeed(nil, f, sess.User.ID)
		view.LoadError = msgLoadFailed
	} else {
		view = s.buildFeed(posts, f, sess.User.ID)
	}

	s.render(w, http.StatusOK, page{
		Page:        "home",
		Title:       "Our Journal",
		DisplayName: sess.DisplayName,
		Flash:       takeFlash(w, r),
		Data:        view,
	})
}

type newPostView struct {
	MaxTitle   int
	MaxContent int
}

func (s *Server) newPostPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrRedirect(w, r)
	if !ok {
		return
	}
	s.renderNewPost(w, http.StatusOK, sess, domain.Draft{}, "")
}

func (s *Server) renderNewPost(w http.ResponseWriter, status int, sess domain.Session, d domain.Draft, msg string) {
	s.render(w, status, page{
		Page:        "new-post",
		Title:       "New Entry",
		DisplayName: sess.DisplayName,
		Error:       msg,
		FormValues:  map[string]string{"Title": d.Title, "Content": d.Content},
		Data:        newPostView{MaxTitle: domain.MaxTitleLength, MaxContent: domain.MaxContentLength},
	})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrRedirect(w, r)
	if !ok {
		return
	}

	draft, err := readPostForm(w, r)
	if err != nil {
		var tooBig *http.MaxBytesError
		msg := "Invalid form"
		switch {
		case domain.KindOf(err) == domain.KindValidation:
			msg = upload.RejectionMessage(err)
		case errors.As(err, &tooBig):
			msg = upload.RejectionMessage(domain.ErrImageTooLarge)
		}
		s.renderNewPost(w, http.StatusBadRequest, sess, draft, msg)
		return
	}

	pub := app.Publisher{Posts: s.posts, Uploads: s.uploader()}
	if _, err := pub.Publish(r.Context(), sess, draft); err != nil {
		status, msg := publishFailure(err)
		s.renderNewPost(w, status, sess, draft, msg)
		return
	}

	setFlash(w, "Post published!")
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

const (
	postFormLimit  = 32 << 20 // Whole request body
	postFieldLimit = 64 << 10 // One text field
)

// readPostForm streams the compose form part by part. Text fields read
// before a rejected attachment are returned with the error, so the page can
// be re-rendered with the draft intact.
func readPostForm(w http.ResponseWriter, r *http.Request) (domain.Draft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, postFormLimit)
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return domain.Draft{}, err
		}
		return domain.Draft{Title: r.PostFormValue("title"), Content: r.PostFormValue("content")}, nil
	}
	if err != nil {
		return domain.Draft{}, err
	}

	var d domain.Draft
	var rejected error
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if rejected != nil {
				return d, rejected
			}
			return d, err
		}

		switch part.FormName() {
		case "title":
			d.Title, err = readField(part)
		case "content":
			d.Content, err = readField(part)
		case "image":
			d.Image, err = readImagePart(part)
			if domain.KindOf(err) == domain.KindValidation {
				rejected, err = err, nil
			}
		}
		part.Close()
		if err != nil {
			if rejected != nil {
				return d, rejected
			}
			return d, err
		}
	}
	return d, rejected
}

func readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, postFieldLimit))
	return string(data), err
}

// readImagePart returns the optional attachment, or nil when none was
// chosen. Reading stops one byte past the size limit.
func readImagePart(part *multipart.Part) (*domain.Image, error) {
	if part.FileName() == "" {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(part, domain.MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	contentType := part.Header.Get("Content-Type")
	if len(data) > domain.MaxImageBytes {
		return nil, domain.ValidateImage(contentType, int64(len(data)))
	}
	return &domain.Image{Filename: part.FileName(), ContentType: contentType, Data: data}, nil
}

// publishFailure maps a publish error to a status and a message. An image
// orphaned by a failed insert is logged; nothing removes it.
func publishFailure(err error) (int, string) {
	var pe *app.PublishError
	stage, base := app.StageIdle, err
	if errors.As(err, &pe) {
		stage, base = pe.Stage, pe.Err
		if pe.OrphanedImageURL != "" {
			log.Warn.Printf("image %s stored but post insert failed; it is unreferenced", pe.OrphanedImageURL)
		}
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		if msg := upload.RejectionMessage(base); msg != base.Error() {
			return http.StatusBadRequest, msg
		}
		return http.StatusBadRequest, sentence(base)
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, "Unauthorized"
	case domain.KindConfig:
		return http.StatusInternalServerError, "Configuration error: image storage is not configured."
	}

	log.Error.Printf("publishing post: %v", err)
	if stage == app.StageUploadingImage {
		return http.StatusBadGateway, "Image upload failed: " + upstreamMessage(base)
	}
	return http.StatusBadGateway, "Failed to create post: " + upstreamMessage(base)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionOrRedirect(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	back := HomePath
	if q := returnQuery(r.FormValue("return")); q != "" {
		back += "?" + q
	}

	if _, err := uuid.Parse(id); err != nil {
		setFlash(w, "Failed to delete post")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err := s.posts.Delete(r.Context(), sess, id); err != nil {
		log.Warn.Printf("deleting post %s: %v", id, err)
		setFlash(w, "Failed to delete post")
	} else {
		setFlash(w, "Post deleted")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// returnQuery keeps only the feed's own filter parameters.
func returnQuery(raw string) string {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return ""
	}
	return feedQuery(app.Filter{Author: app.ParseAuthorFilter(q.Get("author")), Day: dayParam(q.Get("day"))})
}

func dayParam(s string) string {
	if _, ok := app.ParseDayKey(s, nil); ok {
		return s
	}
	return ""
}
