package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := SeedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor actorctx.Actor, object string, action string) error {
	if actor.UserID == 0 || len(actor.Roles) == 0 {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	for _, role := range actor.Roles {
		subject := roleSubject(role)
		allowed, err := s.enforcer.Enforce(subject, object, action)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}
	}

	s.log.Warn("authorization.denied",
		zap.String("user_id", actor.UserID.String()),
		zap.Strings("roles", actor.Roles),
		zap.String("object", object),
		zap.String("action", action),
	)
	return ErrForbidden
}

func roleSubject(role string) string {
	return "role:" + strings.ToLower(strings.TrimSpace(role))
}

// SeedPolicies installs the built-in role grants. AddPolicy is a no-op
// for rules that already exist, so seeding is idempotent.
func SeedPolicies(enforcer *casbin.SyncedEnforcer) error {
	crudObjects := []string{
		ObjectCompany,
		ObjectShip,
		ObjectOperation,
		ObjectPaymentMethod,
		ObjectExpenseCategory,
		ObjectExpense,
		ObjectInvoice,
	}

	policies := [][]string{}

	admin := roleSubject(userdomain.RoleAdmin)
	finance := roleSubject(userdomain.RoleFinance)
	operateur := roleSubject(userdomain.RoleOperateur)
	viewer := roleSubject(userdomain.RoleViewer)

	// ADMIN: everything, including user management.
	for _, object := range append(crudObjects, ObjectUser) {
		for _, action := range []string{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			policies = append(policies, []string{admin, object, action})
		}
	}
	policies = append(policies,
		[]string{admin, ObjectExpense, ActionExpenseSubmit},
		[]string{admin, ObjectExpense, ActionExpenseApprove},
		[]string{admin, ObjectExpense, ActionExpenseReject},
		[]string{admin, ObjectExpense, ActionExpensePay},
		[]string{admin, ObjectExpense, ActionExpenseCancel},
		[]string{admin, ObjectInvoice, ActionInvoiceIssue},
		[]string{admin, ObjectInvoice, ActionInvoiceCancel},
		[]string{admin, ObjectInvoice, ActionInvoiceRecordPayment},
		[]string{admin, ObjectExport, ActionExportInvoices},
		[]string{admin, ObjectExport, ActionExportExpenses},
		[]string{admin, ObjectExport, ActionExportInvoicePDF},
	)

	// FINANCE: full billing workflow, no user management.
	for _, object := range crudObjects {
		for _, action := range []string{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			policies = append(policies, []string{finance, object, action})
		}
	}
	policies = append(policies,
		[]string{finance, ObjectExpense, ActionExpenseSubmit},
		[]string{finance, ObjectExpense, ActionExpenseApprove},
		[]string{finance, ObjectExpense, ActionExpenseReject},
		[]string{finance, ObjectExpense, ActionExpensePay},
		[]string{finance, ObjectExpense, ActionExpenseCancel},
		[]string{finance, ObjectInvoice, ActionInvoiceIssue},
		[]string{finance, ObjectInvoice, ActionInvoiceCancel},
		[]string{finance, ObjectInvoice, ActionInvoiceRecordPayment},
		[]string{finance, ObjectExport, ActionExportInvoices},
		[]string{finance, ObjectExport, ActionExportExpenses},
		[]string{finance, ObjectExport, ActionExportInvoicePDF},
	)

	// OPERATEUR: creates and edits operational records, submits expenses,
	// but never approves, pays or cancels.
	for _, object := range crudObjects {
		policies = append(policies,
			[]string{operateur, object, ActionView},
			[]string{operateur, object, ActionCreate},
			[]string{operateur, object, ActionUpdate},
		)
	}
	policies = append(policies,
		[]string{operateur, ObjectExpense, ActionExpenseSubmit},
		[]string{operateur, ObjectExport, ActionExportInvoicePDF},
	)

	// VIEWER: read-only.
	for _, object := range crudObjects {
		policies = append(policies, []string{viewer, object, ActionView})
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
