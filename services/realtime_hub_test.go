package services

import (
	"strings"
	"testing"
)

func TestRealtimeHubBroadcastsToTopic(t *testing.T) {
	hub := NewRealtimeHub()
	scans := &fakeConn{}
	other := &fakeConn{}
	hub.Register(&WSClient{Topic: TopicScans, Conn: scans})
	hub.Register(&WSClient{Topic: "other", Conn: other})

	hub.Broadcast(TopicScans, map[string]string{"kind": "scan.completed"})

	if got := scans.received(); len(got) != 1 || !strings.Contains(string(got[0]), "scan.completed") {
		t.Errorf("unexpected messages %q", got)
	}
	if len(other.received()) != 0 {
		t.Error("other topic should not receive scan events")
	}
}

func TestRealtimeHubDropsBrokenClients(t *testing.T) {
	hub := NewRealtimeHub()
	broken := &fakeConn{fail: true}
	healthy := &fakeConn{}
	hub.Register(&WSClient{Topic: TopicScans, Conn: broken})
	hub.Register(&WSClient{Topic: TopicScans, Conn: healthy})

	hub.Broadcast(TopicScans, map[string]int{"n": 1})

	if hub.Count(TopicScans) != 1 {
		t.Errorf("expected broken client removed, have %d", hub.Count(TopicScans))
	}
	if !broken.closed {
		t.Error("expected broken connection closed")
	}
	if len(healthy.received()) != 1 {
		t.Error("healthy client should still receive the event")
	}
}

func TestRealtimeHubUnregister(t *testing.T) {
	hub := NewRealtimeHub()
	conn := &fakeConn{}
	c := &WSClient{Topic: TopicScans, Conn: conn}
	hub.Register(c)
	hub.Unregister(c)

	if hub.Count(TopicScans) != 0 || !conn.closed {
		t.Error("expected client removed and closed")
	}
	hub.Broadcast(TopicScans, "ignored")
	if len(conn.received()) != 0 {
		t.Error("unregistered client should not receive events")
	}
}

func TestRealtimeHubBadPayload(t *testing.T) {
	hub := NewRealtimeHub()
	conn := &fakeConn{}
	hub.Register(&WSClient{Topic: TopicScans, Conn: conn})

	hub.Broadcast(TopicScans, make(chan int))
	if len(conn.received()) != 0 {
		t.Error("unencodable payload should not be sent")
	}
}
