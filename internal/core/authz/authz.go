// Package authz renders allow/deny/not-found verdicts for every guarded
// operation. Decide is a pure function of its inputs: it never touches the
// clock, the store, or anything random. Credential expiry is resolved
// earlier by the credential resolver and is not this package's concern.
package authz

import "github.com/adventureapp/adventure-api/internal/core/domain"

// Action identifies a guarded operation.
type Action string

const (
	ActionCreateAdventure   Action = "create_adventure"
	ActionReadAdventure     Action = "read_adventure"
	ActionContinueAdventure Action = "continue_adventure"
	ActionTruncateAdventure Action = "truncate_adventure"
	ActionCloneAdventure    Action = "clone_adventure"
	ActionUpdateAdventure   Action = "update_adventure"
	ActionDeleteAdventure   Action = "delete_adventure"

	ActionCreateUser Action = "create_user"
	ActionDeleteUser Action = "delete_user"

	ActionCreateKey Action = "create_key"
	ActionRevokeKey Action = "revoke_key"
	ActionListKeys  Action = "list_keys"

	ActionReadAudit Action = "read_audit"
)

// Effect is the kind of verdict rendered.
type Effect int

const (
	EffectAllow Effect = iota
	EffectDeny
	EffectNotFound
)

// Decision is the verdict for one (principal, action, resource) triple.
// Reason is set only for EffectDeny and names the sentinel the gateway
// should surface.
type Decision struct {
	Effect Effect
	Reason error
}

// Allowed reports whether the decision permits the operation.
func (d Decision) Allowed() bool { return d.Effect == EffectAllow }

// Err converts a non-allow decision into the sentinel error the gateway
// returns, or nil for an allow. notFound is the resource's own not-found
// sentinel so callers see the same error whether the resource is truly
// absent or its absence is being reported by the authority.
func (d Decision) Err(notFound error) error {
	switch d.Effect {
	case EffectAllow:
		return nil
	case EffectNotFound:
		return notFound
	default:
		return d.Reason
	}
}

// Resource describes the target of a guarded operation. Exists must
// reflect whether the record was found; OwnerID and Public are ignored
// when Exists is false.
type Resource struct {
	OwnerID string
	Exists  bool
	Public  bool
}

// ExistingUser builds the Resource for a user-management action targeting
// the given user id. User records have no owner distinct from themselves.
func ExistingUser(id string) Resource {
	return Resource{OwnerID: id, Exists: true}
}

// Global is the Resource for actions with no addressed record, such as
// creating a user or listing keys.
var Global = Resource{Exists: true}

// Authority decides whether a principal may perform an action on a
// resource. PublicClone gates whether non-owners may clone public
// adventures; the underlying product intent is unsettled, so the policy is
// construction-time configuration rather than a hard rule.
type Authority struct {
	PublicClone bool
}

var allow = Decision{Effect: EffectAllow}
var notFound = Decision{Effect: EffectNotFound}

func deny(reason error) Decision {
	return Decision{Effect: EffectDeny, Reason: reason}
}

// Decide renders the verdict for one request. Guarantees:
//
//   - A missing resource is always NotFound, regardless of role, before
//     any ownership reasoning. Existence is never leaked through the
//     shape of a denial.
//   - Adventure actions allow admins and owners; reads additionally allow
//     public adventures, and clones of public adventures only when
//     PublicClone is set.
//   - User and key management requires the admin role. Deleting one's own
//     user record is vetoed unconditionally, even for admins: the role
//     grants the capability, the self-target guard is a separate veto.
func (a Authority) Decide(p domain.Principal, action Action, res Resource) Decision {
	switch action {
	case ActionCreateAdventure:
		// No owner to check: any authenticated principal may create.
		return allow

	case ActionReadAdventure, ActionContinueAdventure, ActionTruncateAdventure,
		ActionCloneAdventure, ActionUpdateAdventure, ActionDeleteAdventure:
		if !res.Exists {
			return notFound
		}
		if p.IsAdmin() || p.ID == res.OwnerID {
			return allow
		}
		if res.Public {
			if action == ActionReadAdventure {
				return allow
			}
			if action == ActionCloneAdventure && a.PublicClone {
				return allow
			}
		}
		return deny(domain.ErrNotOwner)

	case ActionCreateUser, ActionCreateKey, ActionRevokeKey, ActionListKeys, ActionReadAudit:
		if !res.Exists {
			return notFound
		}
		if !p.IsAdmin() {
			return deny(domain.ErrInsufficientRole)
		}
		return allow

	case ActionDeleteUser:
		if !res.Exists {
			return notFound
		}
		if !p.IsAdmin() {
			return deny(domain.ErrInsufficientRole)
		}
		if p.ID == res.OwnerID {
			return deny(domain.ErrSelfDeletion)
		}
		return allow

	default:
		// Unknown actions fail closed.
		return deny(domain.ErrInsufficientRole)
	}
}
