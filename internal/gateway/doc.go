// Package gateway connects the automation engine to the outside world
// over MQTT.
//
// Outbound: ServiceGateway implements automation.Gateway, publishing
// action commands on omnicore/command/{service}/{kind} for downstream
// connectors to consume. Kinds with no downstream surface (reminders,
// activity log, music, scripts) are acknowledged in-process.
//
// Inbound: EventBridge subscribes to omnicore/event/+ and fires
// event-based automations with the event payload merged into the
// context snapshot.
package gateway
