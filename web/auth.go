package web

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/log"
)

const msgBackendMissing = "Configuration error: the journal backend is not configured."

// sentence capitalizes an error message for display.
func sentence(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, page{Page: "login", Title: "Welcome Back", Flash: takeFlash(w, r)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid form")
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	formErrors := make(map[string]string)
	if email == "" {
		formErrors["Email"] = "Enter your email"
	}
	if password == "" {
		formErrors["Password"] = "Enter your password"
	}
	values := map[string]string{"Email": email}

	if len(formErrors) > 0 {
		s.render(w, http.StatusBadRequest, page{Page: "login", Title: "Welcome Back", FormErrors: formErrors, FormValues: values})
		return
	}
	if s.auth == nil {
		s.render(w, http.StatusInternalServerError, page{Page: "login", Title: "Welcome Back", Error: msgBackendMissing, FormValues: values})
		return
	}

	sess, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		status := http.StatusBadGateway
		if domain.KindOf(err) == domain.KindUnauthorized {
			status = http.StatusUnauthorized
		}
		s.render(w, status, page{Page: "login", Title: "Welcome Back", Error: upstreamMessage(err), FormValues: values})
		return
	}
	if err := app.RecordProfile(r.Context(), s.profiles, sess); err != nil {
		log.Error.Printf("sign in: %v", err)
		s.render(w, http.StatusBadGateway, page{Page: "login", Title: "Welcome Back", Error: upstreamMessage(err), FormValues: values})
		return
	}

	setSessionCookies(w, r, sess, s.now())
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (s *Server) signUpPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, page{Page: "sign-up", Title: "Join Your Journal", Data: domain.Authors})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid form")
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	repeat := r.FormValue("repeat_password")
	values := map[string]string{"Email": email, "DisplayName": r.FormValue("display_name")}

	fail := func(status int, msg string) {
		s.render(w, status, page{Page: "sign-up", Title: "Join Your Journal", Error: msg, FormValues: values, Data: domain.Authors})
	}

	author, ok := domain.ParseAuthor(r.FormValue("display_name"))
	if !ok {
		fail(http.StatusBadRequest, sentence(domain.ErrAuthorRequired))
		return
	}
	if password != repeat {
		fail(http.StatusBadRequest, sentence(domain.ErrPasswordMismatch))
		return
	}
	if email == "" || password == "" {
		fail(http.StatusBadRequest, "Email and password are required")
		return
	}
	if s.auth == nil {
		fail(http.StatusInternalServerError, msgBackendMissing)
		return
	}

	err := s.auth.SignUp(r.Context(), app.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: author,
		RedirectTo:  s.signUpRedirect(r),
	})
	if err != nil {
		log.Warn.Printf("sign up failed: %v", err)
		fail(http.StatusBadGateway, upstreamMessage(err))
		return
	}
	http.Redirect(w, r, "/auth/sign-up-success", http.StatusSeeOther)
}

// signUpRedirect is the override if configured, else this site's root.
func (s *Server) signUpRedirect(r *http.Request) string {
	if s.redirectURL != "" {
		return s.redirectURL
	}
	scheme := "http"
	if secureRequest(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

func (s *Server) signUpSuccess(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, page{Page: "sign-up-success", Title: "Check Your Email"})
}

func (s *Server) authError(w http.ResponseWriter, r *http.Request) {
	msg := "An unspecified error occurred."
	if e := r.URL.Query().Get("error"); e != "" {
		msg = "Error: " + e
	}
	s.render(w, http.StatusOK, page{Page: "error", Title: "Something went wrong", Error: msg})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFrom(r.Context()); ok && s.auth != nil {
		if err := s.auth.SignOut(r.Context(), sess); err != nil {
			log.Warn.Printf("sign out failed: %v", err)
		}
	}
	clearSessionCookies(w, r)
	http.Redirect(w, r, SignInPath, http.StatusSeeOther)
}

// upstreamMessage prefers the backend's own explanation.
func upstreamMessage(err error) string {
	var msgErr interface{ UserMessage() string }
	if errors.As(err, &msgErr) {
		return msgErr.UserMessage()
	}
	return sentence(err)
}
