package output

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/respkv/pkg/resp"
)

// YAMLFormatter formats replies as YAML documents.
type YAMLFormatter struct{}

// Format formats reply as one YAML document.
func (f *YAMLFormatter) Format(w io.Writer, reply resp.Message) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToReply(reply)); err != nil {
		return err
	}
	return enc.Close()
}
