// Package policy holds the access rules for every stored record kind. Creation paths
// ask Build for an ACL instead of assembling grants by hand.
package policy

import (
	"fmt"

	"roostermarket/internal/domain/entity"
)

type Kind string

const (
	KindUser            Kind = "user"
	KindListing         Kind = "listing"
	KindOrder           Kind = "order"
	KindFeedback        Kind = "feedback"
	KindProductFeedback Kind = "product_feedback"
	KindMedia           Kind = "media"
	KindPost            Kind = "post"
	KindComment         Kind = "comment"
)

// Grant says what a class of principal may do.
type Grant int

const (
	GrantNone Grant = iota
	GrantRead
	GrantReadWrite
)

type Rule struct {
	PublicRead   bool
	Owner        Grant // author, seller, uploader
	Participants Grant // the other side: buyer, feedback target
	RoleReaders  []string
}

// Rules is the single source of truth for record permissions.
var Rules = map[Kind]Rule{
	KindUser: {
		PublicRead: true,
		Owner:      GrantReadWrite,
	},
	KindListing: {
		PublicRead:  true,
		Owner:       GrantReadWrite,
		RoleReaders: []string{entity.RoleGeneralUser, entity.RoleFarmer},
	},
	KindOrder: {
		Owner:        GrantReadWrite,
		Participants: GrantReadWrite,
	},
	KindFeedback: {
		Owner:        GrantReadWrite,
		Participants: GrantRead,
		RoleReaders:  []string{entity.RoleGeneralUser, entity.RoleFarmer},
	},
	KindProductFeedback: {
		Owner:        GrantReadWrite,
		Participants: GrantRead,
		RoleReaders:  []string{entity.RoleGeneralUser, entity.RoleFarmer},
	},
	KindMedia: {
		Owner:       GrantReadWrite,
		RoleReaders: []string{entity.RoleGeneralUser, entity.RoleFarmer},
	},
	KindPost: {
		PublicRead: true,
		Owner:      GrantReadWrite,
	},
	KindComment: {
		PublicRead: true,
		Owner:      GrantReadWrite,
	},
}

// Principals names the users a rule is applied to.
type Principals struct {
	Owners       []string
	Participants []string
}

func Owner(ids ...string) Principals {
	return Principals{Owners: ids}
}

func Build(kind Kind, p Principals) (entity.ACL, error) {
	rule, ok := Rules[kind]
	if !ok {
		return entity.ACL{}, fmt.Errorf("no access rule for %q", kind)
	}

	acl := entity.ACL{PublicRead: rule.PublicRead}
	grant(&acl, rule.Owner, p.Owners)
	grant(&acl, rule.Participants, p.Participants)
	if len(rule.RoleReaders) > 0 {
		acl.RoleReaders = append([]string(nil), rule.RoleReaders...)
	}
	return acl, nil
}

func grant(acl *entity.ACL, g Grant, ids []string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		switch g {
		case GrantReadWrite:
			acl.Readers = appendUnique(acl.Readers, id)
			acl.Writers = appendUnique(acl.Writers, id)
		case GrantRead:
			acl.Readers = appendUnique(acl.Readers, id)
		}
	}
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
