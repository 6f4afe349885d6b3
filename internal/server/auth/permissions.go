package auth

import (
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Action is an operation a caller may be allowed to perform.
type Action string

const (
	ActionListDevices      Action = "ListDevices"
	ActionScanDevices      Action = "ScanDevices"
	ActionSubmitJob        Action = "SubmitJob"
	ActionGetStatus        Action = "GetStatus"
	ActionListJobs         Action = "ListJobs"
	ActionCancelJob        Action = "CancelJob"
	ActionGetCertificate   Action = "GetCertificate"
	ActionIssueCertificate Action = "IssueCertificate"
	ActionListAudit        Action = "ListAudit"
	ActionCreateUser       Action = "CreateUser"
	ActionDeactivateUser   Action = "DeactivateUser"
)

var viewerActions = []Action{
	ActionListDevices, ActionGetStatus, ActionListJobs, ActionGetCertificate, ActionListAudit,
}

var operatorActions = append(append([]Action(nil), viewerActions...),
	ActionScanDevices, ActionSubmitJob, ActionCancelJob, ActionIssueCertificate,
)

var adminActions = append(append([]Action(nil), operatorActions...),
	ActionCreateUser, ActionDeactivateUser,
)

var permissions = map[models.Role]map[Action]bool{
	models.RoleViewer:   toSet(viewerActions),
	models.RoleOperator: toSet(operatorActions),
	models.RoleAdmin:    toSet(adminActions),
}

func toSet(actions []Action) map[Action]bool {
	m := make(map[Action]bool, len(actions))
	for _, a := range actions {
		m[a] = true
	}
	return m
}

// Allowed reports whether role may perform action.
func Allowed(role models.Role, action Action) bool {
	return permissions[role][action]
}

// Authorize validates the token and checks the permission matrix. It has
// no side effects.
func Authorize(token string, secretKey []byte, action Action) (*Claims, error) {
	claims, err := ParseToken(token, secretKey)
	if err != nil {
		return nil, err
	}
	if !Allowed(claims.Role, action) {
		return nil, fmt.Errorf("%s may not %s: %w", claims.Role, action, common.ErrForbidden)
	}
	return claims, nil
}
