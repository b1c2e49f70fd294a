package pubsub

import (
	"encoding/json"
	"fmt"
	"reflect"
)

type Codec interface {
	Encode(value any) (data []byte, err error)
	Decode(data []byte) (value any, err error)
}

// JSONCodec is the wire codec used when no schema registry is configured.
type JSONCodec struct {
	prototype any
}

var _ Codec = (*JSONCodec)(nil)

func newJSONCodec(prototype any) *JSONCodec {
	return &JSONCodec{prototype: prototype}
}

func (c *JSONCodec) Encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshaling data: %w", err)
	}

	return data, nil
}

func (c *JSONCodec) Decode(data []byte) (any, error) {
	prototypeType := reflect.TypeOf(c.prototype)
	if prototypeType.Kind() == reflect.Ptr {
		prototypeType = prototypeType.Elem()
	}

	instance := reflect.New(prototypeType).Interface()
	if err := json.Unmarshal(data, instance); err != nil {
		return nil, fmt.Errorf("unmarshaling data: %w", err)
	}

	return instance, nil
}
