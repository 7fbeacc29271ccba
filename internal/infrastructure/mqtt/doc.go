// Package mqtt publishes sardana2xls run notifications to an MQTT broker.
//
// The client is publish-only: it connects once, publishes the export
// summary and disconnects. A Last Will on the status topic marks runs that
// died while connected.
//
// # Topics
//
//	<prefix>/<pool>/export   export summary (JSON, not retained)
//	<prefix>/status          client status (JSON, retained)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.NewTopics(cfg.MQTT.TopicPrefix).Export("B108A")
//	err = client.Publish(topic, payload, byte(cfg.MQTT.QoS), false)
package mqtt
