// Package authz decides what a canonical authority may do, using a casbin
// enforcer with an embedded model.
package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var modelContent string

const (
	AuthoritySubmitter      = "SUBMITTER"
	AuthorityEvaluatorAdmin = "EVALUATOR_ADMIN"

	// AnyAuthority matches every subject.
	AnyAuthority = "*"

	ObjectProfile  = "profile"
	ObjectAttempts = "attempts"

	ActionRead = "read"
)

// DefaultPolicies lets anyone signed in read their own profile and
// evaluator/admins read the attempt ledger.
var DefaultPolicies = [][]string{
	{AnyAuthority, ObjectProfile, ActionRead},
	{AuthorityEvaluatorAdmin, ObjectAttempts, ActionRead},
}

// Authorizer answers allow/deny for (authority, object, action).
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds an Authorizer holding policies in memory. Nil policies means
// DefaultPolicies.
func New(policies [][]string) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if policies == nil {
		policies = DefaultPolicies
	}
	if len(policies) > 0 {
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("load casbin policies: %w", err)
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Allow reports whether authority may perform action on object. Authority
// must already be canonical.
func (a *Authorizer) Allow(authority, object, action string) (bool, error) {
	ok, err := a.enforcer.Enforce(authority, object, action)
	if err != nil {
		return false, fmt.Errorf("enforce: %w", err)
	}
	return ok, nil
}
