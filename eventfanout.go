package adecon

import (
	"pkt.systems/adecon/core"
	"pkt.systems/adecon/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnOutput(event schema.OutputEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnOutput(event)
	}
}

func (f eventFanout) OnTabEvent(event schema.TabEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTabEvent(event)
	}
}

func (f eventFanout) OnTreeEvent(event schema.TreeEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTreeEvent(event)
	}
}
