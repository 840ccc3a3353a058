package patients

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OptionalNumber decodifica los campos numéricos opcionales del formulario:
// acepta número JSON, string numérica, "" o null. Los dos últimos quedan como
// "sin valor" (NULL al persistir).
type OptionalNumber struct {
	Value *float64
}

func (n *OptionalNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		n.Value = nil
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			n.Value = nil
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("valor no numérico: %q", str)
		}
		n.Value = &f
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	n.Value = &f
	return nil
}
