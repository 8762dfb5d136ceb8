package availability_rules

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

type RuleService interface {
	Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error)
	GetByID(ctx context.Context, id int64) (*models.RuleResponse, error)
	List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error)
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
