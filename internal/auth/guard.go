package auth

// Decision is the outcome of gating a protected surface on the auth state.
type Decision int

const (
	// DecisionWait: startup read not finished yet; show a placeholder and
	// make no redirect decision.
	DecisionWait Decision = iota
	// DecisionRedirectLogin: loaded and not authenticated.
	DecisionRedirectLogin
	// DecisionAllow: loaded and authenticated.
	DecisionAllow
)

// Guard decides whether a protected surface may be shown. The loading
// check always precedes the authentication check so protected content is
// never exposed before the startup read resolves.
func Guard(s Snapshot) Decision {
	if s.IsLoading {
		return DecisionWait
	}
	if !s.IsAuthenticated() {
		return DecisionRedirectLogin
	}
	return DecisionAllow
}
