package automation

import "testing"

// Every built-in template must pass the same validation as a user
// submission, and reference only known conditions.
func TestBuiltinTemplatesAreValid(t *testing.T) {
	evaluator := NewEvaluator(nil)
	templates := builtinTemplates()

	if len(templates) != 7 {
		t.Fatalf("expected 7 built-in templates, got %d", len(templates))
	}

	for id, tmpl := range templates {
		t.Run(id, func(t *testing.T) {
			if tmpl.ID != id {
				t.Errorf("template keyed as %q carries ID %q", id, tmpl.ID)
			}
			if err := ValidateName(tmpl.Name); err != nil {
				t.Errorf("name invalid: %v", err)
			}
			if err := ValidateTrigger(tmpl.Trigger); err != nil {
				t.Errorf("trigger invalid: %v", err)
			}
			if err := ValidateActions(tmpl.Actions); err != nil {
				t.Errorf("actions invalid: %v", err)
			}
			for _, cond := range tmpl.Conditions {
				if !evaluator.Known(cond) {
					t.Errorf("condition %q is not a registered predicate", cond)
				}
			}
		})
	}
}

func TestMorningRoutineShape(t *testing.T) {
	tmpl := builtinTemplates()["morning_routine"]

	if tmpl.Trigger.Kind != TriggerTimeBased || tmpl.Trigger.Condition != "0 8 * * *" {
		t.Errorf("unexpected trigger: %+v", tmpl.Trigger)
	}
	if len(tmpl.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(tmpl.Actions))
	}
	if tmpl.Actions[0].Kind != ActionCreateTask {
		t.Errorf("first action = %s, want create_task", tmpl.Actions[0].Kind)
	}
	if tmpl.Actions[1].Kind != ActionSendMessage || tmpl.Actions[1].DelayMS != 30000 {
		t.Errorf("second action should be send_message delayed 30s: %+v", tmpl.Actions[1])
	}
	if len(tmpl.Conditions) != 1 || tmpl.Conditions[0] != ConditionWorkMode {
		t.Errorf("unexpected conditions: %v", tmpl.Conditions)
	}
}
