package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/estevaoantuness/notion-pangeia-sub000/catalog"
	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
	"github.com/estevaoantuness/notion-pangeia-sub000/tasks"
)

// execute runs the handler for a complete ParseResult. Handlers receive only
// validated parameters; collaborator failures come back as an apology with
// state already consistent.
func (e *Engine) execute(ctx context.Context, userID string, result nlp.ParseResult) []string {
	switch result.Intent {
	case nlp.IntentListTasks:
		return e.handleList(ctx, userID, result.Scope())
	case nlp.IntentListMore:
		return e.handleList(ctx, userID, nlp.ScopeAll)
	case nlp.IntentCompleteTask, nlp.IntentRemoveTask, nlp.IntentPostponeTask:
		return e.executeIndexed(ctx, userID, result.Intent, result.Indices(), result.Scope())
	case nlp.IntentAddTask:
		return e.handleAdd(ctx, userID, result.Text())
	case nlp.IntentProgress:
		return e.handleProgress(ctx, userID)
	case nlp.IntentHelp:
		return []string{e.phrases.Pick(catalog.CatHelp, nil)}
	case nlp.IntentGreeting:
		return []string{e.phrases.Pick(catalog.CatGreeting, nil)}
	case nlp.IntentCancel:
		// Nothing suspended; acknowledging is still friendlier than a shrug.
		return []string{e.phrases.Pick(catalog.CatCancelAck, nil)}
	default:
		return []string{e.phrases.Pick(catalog.CatHelp, nil)}
	}
}

// executeIndexed runs an index-taking intent once per value and aggregates
// the per-value outcomes into a single outward message, partial failures
// included.
func (e *Engine) executeIndexed(ctx context.Context, userID string, intent nlp.Intent, indices []int, scope nlp.Scope) []string {
	lines := make([]string, 0, len(indices))
	for _, index := range indices {
		line, err := e.applyIndexed(ctx, userID, intent, index, scope)
		if err != nil {
			if errors.Is(err, tasks.ErrNotFound) {
				lines = append(lines, e.phrases.Pick(catalog.CatTaskDoneFail, map[string]string{
					"indice": strconv.Itoa(index),
				}))
				continue
			}
			e.log.Error("task store call failed", "user", userID, "intent", intent, "index", index, "error", err)
			lines = append(lines, e.phrases.Pick(catalog.CatApology, nil))
		} else {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []string{e.phrases.Pick(catalog.CatApology, nil)}
	}
	return []string{strings.Join(lines, "\n")}
}

func (e *Engine) applyIndexed(ctx context.Context, userID string, intent nlp.Intent, index int, scope nlp.Scope) (string, error) {
	switch intent {
	case nlp.IntentCompleteTask:
		t, err := e.store.Complete(ctx, userID, index)
		if err != nil {
			return "", err
		}
		return e.phrases.Pick(catalog.CatTaskDone, map[string]string{"titulo": t.Title}), nil
	case nlp.IntentRemoveTask:
		t, err := e.store.Remove(ctx, userID, index)
		if err != nil {
			return "", err
		}
		return e.phrases.Pick(catalog.CatTaskRemoved, map[string]string{"titulo": t.Title}), nil
	case nlp.IntentPostponeTask:
		t, err := e.store.Postpone(ctx, userID, index, scope)
		if err != nil {
			return "", err
		}
		return e.phrases.Pick(catalog.CatTaskPostponed, map[string]string{"titulo": t.Title}), nil
	default:
		return "", fmt.Errorf("intent %s takes no indices", intent)
	}
}

func (e *Engine) handleList(ctx context.Context, userID string, scope nlp.Scope) []string {
	if scope == nlp.ScopeNone {
		scope = nlp.ScopeToday
	}
	list, err := e.store.List(ctx, userID, scope)
	if err != nil {
		e.log.Error("task list failed", "user", userID, "error", err)
		e.setState(userID, idle(nlp.OutboundNone))
		return []string{e.phrases.Pick(catalog.CatApology, nil)}
	}
	if len(list) == 0 {
		e.setState(userID, idle(nlp.OutboundNone))
		return []string{e.phrases.Pick(catalog.CatListEmpty, nil)}
	}
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, e.phrases.Pick(catalog.CatListHeader, map[string]string{"escopo": string(scope)}))
	for i, t := range list {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t.Title))
	}
	return []string{strings.Join(lines, "\n")}
}

func (e *Engine) handleAdd(ctx context.Context, userID, title string) []string {
	t, err := e.store.Add(ctx, userID, title)
	if err != nil {
		e.log.Error("task add failed", "user", userID, "error", err)
		return []string{e.phrases.Pick(catalog.CatApology, nil)}
	}
	return []string{e.phrases.Pick(catalog.CatTaskAdded, map[string]string{"titulo": t.Title})}
}

func (e *Engine) handleProgress(ctx context.Context, userID string) []string {
	done, total, err := e.store.Progress(ctx, userID)
	if err != nil {
		e.log.Error("task progress failed", "user", userID, "error", err)
		return []string{e.phrases.Pick(catalog.CatApology, nil)}
	}
	return []string{e.phrases.Pick(catalog.CatProgress, map[string]string{
		"feitas": strconv.Itoa(done),
		"total":  strconv.Itoa(total),
	})}
}
