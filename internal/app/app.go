package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/unifiedhq/chatcli/internal/api"
	"github.com/unifiedhq/chatcli/internal/auth"
	"github.com/unifiedhq/chatcli/internal/chat"
	"github.com/unifiedhq/chatcli/internal/models"
	"go.uber.org/zap"
)

// App is the interactive terminal surface tying the authenticator, the
// gateway client and the session reconciler together.
type App struct {
	client     *api.Client
	auth       *auth.Authenticator
	reconciler *chat.Reconciler
	logger     *zap.Logger
	in         *bufio.Scanner
	out        io.Writer
}

func New(client *api.Client, authenticator *auth.Authenticator, reconciler *chat.Reconciler, logger *zap.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		client:     client,
		auth:       authenticator,
		reconciler: reconciler,
		logger:     logger,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run drives the read-eval loop until EOF or /quit. It performs the one
// startup read of stored credentials before accepting input.
func (a *App) Run(ctx context.Context) error {
	wasAuthenticated := false
	a.auth.Subscribe(func(s auth.Snapshot) {
		if s.IsAuthenticated() {
			wasAuthenticated = true
			return
		}
		if wasAuthenticated {
			wasAuthenticated = false
			a.printf("Signed out. Use /login to sign in again.")
		}
	})

	a.auth.Load()

	snap := a.auth.Snapshot()
	if snap.IsAuthenticated() {
		a.client.SetToken(snap.Token)
		a.printf("Welcome back, %s!", displayName(snap.User))
		a.openDashboard(ctx)
	} else {
		a.printf("Welcome to chatcli. Use /login or /signup to get started, /help for all commands.")
	}

	for a.prompt(); a.in.Scan(); a.prompt() {
		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		a.handleLine(ctx, line)
	}
	return a.in.Err()
}

func (a *App) handleLine(ctx context.Context, line string) {
	if !strings.HasPrefix(line, "/") {
		a.handleChat(ctx, line)
		return
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		a.handleHelp()
	case "/signup":
		a.handleSignup(ctx)
	case "/login":
		a.handleLogin(ctx)
	case "/verify":
		a.handleVerify(ctx)
	case "/forgot":
		a.handleForgot(ctx)
	case "/reset":
		a.handleReset(ctx)
	case "/oauth":
		a.handleOAuth(ctx, arg)
	case "/logout":
		a.handleLogout()
	case "/new":
		a.guarded(func() { a.handleNew() })
	case "/sessions":
		a.guarded(func() { a.handleSessions() })
	case "/switch":
		a.guarded(func() { a.handleSwitch(ctx, arg) })
	case "/health":
		a.handleHealth(ctx)
	default:
		a.printf("Unknown command %s. Use /help to list commands.", cmd)
	}
}

// guarded runs fn only when the protected surface may be shown. The
// loading check precedes the authentication check.
func (a *App) guarded(fn func()) {
	switch auth.Guard(a.auth.Snapshot()) {
	case auth.DecisionWait:
		a.printf("Still loading your session, try again in a moment.")
	case auth.DecisionRedirectLogin:
		a.printf("You need to sign in first. Use /login.")
	default:
		fn()
	}
}

func (a *App) handleHelp() {
	a.printf(`Available commands:
/signup - Create an account
/login - Sign in with email and password
/verify - Verify your email with the OTP you received
/forgot - Request a password reset OTP
/reset - Reset your password with an OTP
/oauth <callback-url> - Complete a Google sign-in from its callback URL
/new - Start a new chat session
/sessions - List your chat sessions
/switch <number> - Switch to a session from the list
/logout - Sign out
/health - Check the service status
/quit - Exit

Anything else is sent as a chat message.`)
}

func (a *App) handleSignup(ctx context.Context) {
	email := a.ask("Email: ")
	fullName := a.ask("Full name: ")
	password := a.ask("Password: ")
	confirm := a.ask("Confirm password: ")

	if errs := auth.ValidateSignup(email, password, confirm, fullName); len(errs) > 0 {
		a.printFieldErrors(errs)
		return
	}
	if auth.PasswordStrength(password) < 3 {
		a.printf("Note: that password is weak, consider mixing cases, digits and symbols.")
	}

	resp, err := a.client.Signup(ctx, api.SignupRequest{Email: email, Password: password, FullName: fullName})
	if err != nil {
		a.printError("Signup failed", err)
		return
	}
	a.printf("%s", resp.Message)
	a.printf("Check your inbox for the verification code, then run /verify.")
}

func (a *App) handleLogin(ctx context.Context) {
	email := a.ask("Email: ")
	password := a.ask("Password: ")

	if errs := auth.ValidateLogin(email, password); len(errs) > 0 {
		a.printFieldErrors(errs)
		return
	}

	resp, err := a.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.printError("Login failed", err)
		return
	}
	if resp.AccessToken == "" || resp.User == nil {
		a.printf("Login failed: %s", resp.Message)
		return
	}

	if err := a.auth.Login(resp.User, resp.AccessToken); err != nil {
		a.logger.Error("Failed to persist session", zap.Error(err))
		a.printf("Signed in, but the session could not be saved: %v", err)
	} else {
		a.printf("Signed in as %s.", displayName(resp.User))
	}
	a.openDashboard(ctx)
}

func (a *App) handleVerify(ctx context.Context) {
	email := a.ask("Email: ")
	otp := a.ask("OTP: ")

	if errs := auth.ValidateVerifyEmail(email, otp); len(errs) > 0 {
		a.printFieldErrors(errs)
		return
	}

	resp, err := a.client.VerifyEmail(ctx, api.VerifyEmailRequest{Email: email, OTP: otp})
	if err != nil {
		a.printError("Verification failed", err)
		return
	}
	a.printf("%s", resp.Message)
}

func (a *App) handleForgot(ctx context.Context) {
	email := a.ask("Email: ")

	if errs := auth.ValidateForgotPassword(email); len(errs) > 0 {
		a.printFieldErrors(errs)
		return
	}

	resp, err := a.client.ForgotPassword(ctx, api.ForgotPasswordRequest{Email: email})
	if err != nil {
		a.printError("Request failed", err)
		return
	}
	a.printf("%s", resp.Message)
}

func (a *App) handleReset(ctx context.Context) {
	email := a.ask("Email: ")
	otp := a.ask("OTP: ")
	password := a.ask("New password: ")
	confirm := a.ask("Confirm password: ")

	if errs := auth.ValidateResetPassword(email, otp, password, confirm); len(errs) > 0 {
		a.printFieldErrors(errs)
		return
	}

	resp, err := a.client.ResetPassword(ctx, api.ResetPasswordRequest{
		Email:           email,
		OTP:             otp,
		NewPassword:     password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		a.printError("Reset failed", err)
		return
	}
	a.printf("%s", resp.Message)
}

// handleOAuth completes a browser-based Google sign-in: the user pastes
// the callback URL the service redirected to. No reload-style resync is
// needed, the parsed credentials flow through the authenticator like any
// other login.
func (a *App) handleOAuth(ctx context.Context, callbackURL string) {
	if callbackURL == "" {
		a.printf("Open %s in a browser, then paste the callback URL: /oauth <url>", a.client.GoogleLoginURL())
		return
	}

	user, token, err := api.ParseOAuthCallback(callbackURL)
	if err != nil {
		a.printError("Google sign-in failed", err)
		return
	}

	a.client.SetToken(token)
	if err := a.auth.Login(user, token); err != nil {
		a.logger.Error("Failed to persist session", zap.Error(err))
		a.printf("Signed in, but the session could not be saved: %v", err)
	} else {
		a.printf("Signed in as %s.", displayName(user))
	}
	a.openDashboard(ctx)
}

func (a *App) handleLogout() {
	a.client.ClearAuth()
	if err := a.auth.Logout(); err != nil {
		a.logger.Error("Failed to clear session", zap.Error(err))
		a.printf("Sign-out hit a problem clearing saved credentials: %v", err)
	}
}

func (a *App) handleNew() {
	a.reconciler.CreateSession()
	a.printf("Started a new chat.")
}

func (a *App) handleSessions() {
	sessions := a.reconciler.Sessions()
	if len(sessions) == 0 {
		a.printf("No sessions yet. Use /new to start one.")
		return
	}

	active := a.reconciler.ActiveID()
	for i, s := range sessions {
		marker := " "
		if s.ID == active {
			marker = "*"
		}
		a.printf("%s %d. %s (%d messages)", marker, i+1, s.Title, len(s.Messages))
	}
}

func (a *App) handleSwitch(ctx context.Context, arg string) {
	sessions := a.reconciler.Sessions()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(sessions) {
		a.printf("Usage: /switch <number>, see /sessions for the list.")
		return
	}

	if err := a.reconciler.SelectSession(ctx, sessions[n-1].ID); err != nil {
		a.printError("Could not load that session", err)
		return
	}
	a.printHistory()
}

func (a *App) handleHealth(ctx context.Context) {
	resp, err := a.client.Health(ctx)
	if err != nil {
		a.printError("Service unreachable", err)
		return
	}
	a.printf("Service status: %s %s", resp.Status, resp.Message)
}

func (a *App) handleChat(ctx context.Context, text string) {
	a.guarded(func() {
		reply, err := a.reconciler.SendMessage(ctx, text)
		if err != nil {
			a.printError("Sorry, your message could not be sent", err)
			return
		}
		if reply != nil {
			a.printf("assistant: %s", reply.Content)
		}
	})
}

// openDashboard loads the stored sessions after a successful sign-in,
// falling back to a fresh chat when there are none.
func (a *App) openDashboard(ctx context.Context) {
	if err := a.reconciler.LoadSessions(ctx); err != nil {
		a.logger.Warn("Failed to load sessions", zap.Error(err))
		a.printf("Could not load your previous sessions, starting a new chat.")
		return
	}
	a.handleSessions()
}

func (a *App) printHistory() {
	for _, m := range a.reconciler.ActiveMessages() {
		suffix := ""
		if m.Pending {
			suffix = " (sending...)"
		}
		a.printf("%s: %s%s", m.Role, m.Content, suffix)
	}
}

func (a *App) printFieldErrors(errs auth.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		a.printf("%s: %s", field, errs[field])
	}
}

// printError presents a failure without ending the process. Business
// errors carry the server's detail; transport errors are shown as-is.
func (a *App) printError(prefix string, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		a.printf("%s: %s", prefix, apiErr.Detail)
		return
	}
	a.printf("%s: %v", prefix, err)
}

func (a *App) ask(prompt string) string {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *App) prompt() {
	fmt.Fprint(a.out, "> ")
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func displayName(user *models.User) string {
	if user == nil {
		return "there"
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Email
}
