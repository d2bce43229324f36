package prefixid_test

import "github.com/zjrosen/idkit/prefixid"

type userKind struct{}

func (userKind) Name() string      { return "UserID" }
func (userKind) Prefix() string    { return "usr" }
func (userKind) Aliases() []string { return []string{"user"} }

type orderKind struct{}

func (orderKind) Name() string   { return "OrderID" }
func (orderKind) Prefix() string { return "ord" }

type (
	UserID  = prefixid.ID[userKind]
	OrderID = prefixid.ID[orderKind]
)
