package services

import (
	"context"
	"fmt"
	"time"

	"agentdesk/internal/models"
)

// DefaultStepDelay is how long each stage stays in "processing"
const DefaultStepDelay = 800 * time.Millisecond

// StepSimulator drives the cosmetic three-stage thinking trace shown while a
// reply streams. It is not coupled to the token stream.
type StepSimulator struct {
	delay time.Duration
}

// NewStepSimulator creates a simulator; a non-positive delay uses DefaultStepDelay
func NewStepSimulator(delay time.Duration) *StepSimulator {
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	return &StepSimulator{delay: delay}
}

// InitialSteps returns the three stages, all pending
func InitialSteps(collaboration bool) []models.StepLog {
	third := models.StepLog{Title: "多模态生成", Description: "调用 Gemini 2.5 模型生成内容..."}
	if collaboration {
		third = models.StepLog{Title: "多智能体协同", Description: "正在调度专家团队进行联合分析..."}
	}
	steps := []models.StepLog{
		{Title: "意图识别", Description: "分析用户需求，匹配业务场景..."},
		{Title: "知识库检索", Description: "正在查询 Dishang RAG 数据库..."},
		third,
	}
	for i := range steps {
		steps[i].ID = fmt.Sprintf("%d", i+1)
		steps[i].Status = models.StepPending
		steps[i].Timestamp = stepLabel(i)
	}
	return steps
}

// stepLabel renders the mm:ss display label for the i-th stage
func stepLabel(i int) string {
	return fmt.Sprintf("%02d:%02d", i/60, i%60)
}

// Run advances every stage pending -> processing -> completed in order,
// calling onUpdate with a fresh snapshot after each transition. On
// cancellation it stops and returns the partial snapshot with ok=false.
func (s *StepSimulator) Run(ctx context.Context, collaboration bool, onUpdate func([]models.StepLog)) ([]models.StepLog, bool) {
	steps := InitialSteps(collaboration)
	if ctx.Err() != nil {
		return snapshot(steps), false
	}
	emit(onUpdate, steps)

	for i := range steps {
		steps[i].Status = models.StepProcessing
		emit(onUpdate, steps)

		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return snapshot(steps), false
		case <-timer.C:
		}

		steps[i].Status = models.StepCompleted
		emit(onUpdate, steps)
	}
	return snapshot(steps), true
}

func emit(onUpdate func([]models.StepLog), steps []models.StepLog) {
	if onUpdate != nil {
		onUpdate(snapshot(steps))
	}
}

func snapshot(steps []models.StepLog) []models.StepLog {
	return append([]models.StepLog(nil), steps...)
}

// CompleteSteps forces every stage to completed. Used when a turn ends
// before the simulator could finish so no stage is left in processing.
func CompleteSteps(steps []models.StepLog) []models.StepLog {
	out := snapshot(steps)
	for i := range out {
		out[i].Status = models.StepCompleted
	}
	return out
}
