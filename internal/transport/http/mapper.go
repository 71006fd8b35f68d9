package http

import (
	"encoding/json"

	"github.com/sjpark-dev/roomchat-server/internal/core"
	"github.com/sjpark-dev/roomchat-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeNick:
		var nick proto.NickData
		if err := unmarshalData(inbound.Data, &nick); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:     core.CommandSetNickname,
			Nickname: nick.Nickname,
		}, nil, nil
	case proto.InboundTypeCreateRoom:
		var create proto.CreateRoomData
		if err := unmarshalData(inbound.Data, &create); err != nil {
			return nil, nil, err
		}
		if create.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "name is required"}, nil
		}
		return &core.Command{
			Kind:       core.CommandCreateRoom,
			Room:       create.Name,
			Capacity:   create.Capacity,
			Private:    create.Private,
			AccessCode: create.AccessCode,
		}, nil, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := unmarshalData(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
		}, nil, nil
	case proto.InboundTypeJoinCode:
		var join proto.JoinCodeData
		if err := unmarshalData(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.AccessCode == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "access_code is required"}, nil
		}
		return &core.Command{
			Kind:       core.CommandJoinByCode,
			AccessCode: join.AccessCode,
		}, nil, nil
	case proto.InboundTypeLeave:
		return &core.Command{Kind: core.CommandLeaveRoom}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := unmarshalData(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Text: msg.Text,
		}, nil, nil
	case proto.InboundTypeListRooms:
		return &core.Command{Kind: core.CommandListRooms}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

// unmarshalData tolerates a missing data field for commands whose
// payload is fully optional.
func unmarshalData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventNickOK:
		return outboundEvent(proto.EventNameNickOK, proto.EventNickOK{
			Nickname: event.Nickname,
		})
	case core.EventRoomCreated:
		return outboundEvent(proto.EventNameRoomCreated, proto.EventRoomCreated{
			Room:       event.Room,
			Capacity:   event.Capacity,
			Private:    event.Private,
			AccessCode: event.AccessCode,
		})
	case core.EventJoined:
		return outboundEvent(proto.EventNameJoined, proto.EventJoined{
			Room:    event.Room,
			Members: event.Members,
		})
	case core.EventLeft:
		return outboundEvent(proto.EventNameLeft, proto.EventLeft{
			Room: event.Room,
		})
	case core.EventMemberList:
		return outboundEvent(proto.EventNameMemberList, proto.EventMemberList{
			Room:    event.Room,
			Members: event.Members,
		})
	case core.EventRoomMessage:
		return outboundEvent(proto.EventNameMessage, proto.EventMessage{
			Room:   event.Message.Room,
			Sender: event.Message.From,
			Text:   event.Message.Text,
			TS:     event.Message.CreatedAt.Unix(),
		})
	case core.EventSystemNotice:
		return outboundEvent(proto.EventNameSystem, proto.EventSystem{
			Room: event.Message.Room,
			Text: event.Message.Text,
			TS:   event.Message.CreatedAt.Unix(),
		})
	case core.EventRoomList:
		rooms := make([]proto.RoomSummary, 0, len(event.Rooms))
		for _, info := range event.Rooms {
			rooms = append(rooms, proto.RoomSummary{
				Name:      info.Name,
				Capacity:  info.Capacity,
				Members:   info.Members,
				CreatedAt: info.CreatedAt.Unix(),
			})
		}
		return outboundEvent(proto.EventNameRoomList, proto.EventRoomList{Rooms: rooms})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func outboundEvent(name string, data any) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: name,
		Data:  data,
	}
}
