package automation

// builtinTemplates returns the prebuilt automation definitions loaded
// into every new catalog. IDs are stable and referenced by clients.
func builtinTemplates() map[string]Template {
	templates := []Template{
		{
			ID:          "morning_routine",
			Name:        "Morning Routine",
			Description: "Start the work day: plan tasks and post a daily summary",
			Trigger: Trigger{
				Kind:      TriggerTimeBased,
				Condition: "0 8 * * *",
			},
			Actions: []Action{
				{
					Kind: ActionCreateTask,
					Params: map[string]any{
						"title":    "Review today's priorities",
						"priority": "high",
					},
				},
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "Good morning! Your daily plan is ready.",
						"channel": "assistant",
					},
					DelayMS: 30000,
				},
			},
			Conditions: []string{ConditionWorkMode},
		},
		{
			ID:          "task_completion_celebration",
			Name:        "Task Completion Celebration",
			Description: "Acknowledge finished tasks with an encouraging note",
			Trigger: Trigger{
				Kind:      TriggerEventBased,
				Condition: "task_completed",
			},
			Actions: []Action{
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "Nice work finishing {task_title}!",
						"channel": "assistant",
					},
				},
				{
					Kind: ActionLogActivity,
					Params: map[string]any{
						"activity": "task_completed",
						"detail":   "{task_title}",
					},
				},
			},
		},
		{
			ID:          "focus_time_automation",
			Name:        "Focus Time",
			Description: "Silence distractions and queue focus music on demand",
			Trigger: Trigger{
				Kind:      TriggerManual,
				Condition: "start_focus",
			},
			Actions: []Action{
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "Going heads-down. Back in a bit.",
						"channel": "status",
					},
				},
				{
					Kind:    ActionPlayMusic,
					Service: "music",
					Params: map[string]any{
						"playlist": "deep_focus",
					},
				},
			},
		},
		{
			ID:          "meeting_preparation",
			Name:        "Meeting Preparation",
			Description: "Surface notes and context shortly before meetings",
			Trigger: Trigger{
				Kind:      TriggerTimeBased,
				Condition: "*/15 * * * *",
			},
			Actions: []Action{
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "You have a meeting coming up. Notes are attached.",
						"channel": "assistant",
					},
				},
			},
			Conditions: []string{ConditionUpcomingMeeting},
		},
		{
			ID:          "evening_wind_down",
			Name:        "Evening Wind Down",
			Description: "Close out the day: summary and tomorrow's first task",
			Trigger: Trigger{
				Kind:      TriggerTimeBased,
				Condition: "0 18 * * *",
			},
			Actions: []Action{
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "Wrapping up for today. Here's your summary.",
						"channel": "assistant",
					},
				},
				{
					Kind: ActionCreateTask,
					Params: map[string]any{
						"title":    "Plan tomorrow morning",
						"priority": "medium",
					},
				},
			},
		},
		{
			ID:          "health_reminder",
			Name:        "Health Reminder",
			Description: "Movement and hydration nudges through the day",
			Trigger: Trigger{
				Kind:      TriggerTimeBased,
				Condition: "0 */2 * * *",
			},
			Actions: []Action{
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "Time to stretch and grab some water.",
						"channel": "health",
					},
				},
			},
		},
		{
			ID:          "deadline_alert",
			Name:        "Deadline Alert",
			Description: "Warn when a tracked deadline enters its alert window",
			Trigger: Trigger{
				Kind:      TriggerConditionBased,
				Condition: ConditionDeadlineApproaching,
				Params: map[string]any{
					"hours_ahead": 24,
				},
			},
			Actions: []Action{
				{
					Kind: ActionSendMessage,
					Params: map[string]any{
						"message": "Deadline approaching: {deadline_title}",
						"channel": "alerts",
					},
				},
				{
					Kind: ActionSetReminder,
					Params: map[string]any{
						"title":     "Deadline: {deadline_title}",
						"remind_at": "{deadline_at}",
					},
				},
			},
			Conditions: []string{ConditionDeadlineApproaching},
		},
	}

	out := make(map[string]Template, len(templates))
	for _, t := range templates {
		out[t.ID] = t
	}
	return out
}
