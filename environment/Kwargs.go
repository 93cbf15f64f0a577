package environment

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kwargs is a flat keyword configuration of an environment, for
// example {"board_size": 6} or {"max_steps": 200, "lost_reward": -10}.
// Keys are the yaml names of the fields of an environment's Config.
type Kwargs map[string]interface{}

// DecodeKwargs decodes a keyword configuration into the Config struct
// pointed to by config. Fields of config that are not named in kw keep
// their value, so config should hold the defaults before decoding.
// Unknown keys are rejected with an error wrapping ErrConfig.
func DecodeKwargs(kw Kwargs, config interface{}) error {
	if len(kw) == 0 {
		return nil
	}

	data, err := yaml.Marshal(map[string]interface{}(kw))
	if err != nil {
		return fmt.Errorf("decodeKwargs: could not encode kwargs: %v: %w",
			err, ErrConfig)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("decodeKwargs: %v: %w", err, ErrConfig)
	}
	return nil
}

// EncodeKwargs returns the flat keyword form of a Config struct
func EncodeKwargs(config interface{}) (Kwargs, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("encodeKwargs: %v", err)
	}

	kw := Kwargs{}
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("encodeKwargs: %v", err)
	}
	return kw, nil
}
