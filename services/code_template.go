package services

import (
	"strings"
	"text/template"
)

const codeSkeleton = `
import java.io.*;

public class ImageAnalysis {

    public static void main(String[] args) {
        System.out.println("Image Analysis Results:");
        System.out.println("{{ list .Contexts }}");

        // Sample question analysis
        System.out.println("Question Analysis: {{ .Question }}");
    }
}
`

var codeTemplate = template.Must(template.New("java").Funcs(template.FuncMap{
	"list": quotedList,
}).Parse(codeSkeleton))

// quotedList renders items as ['a', 'b'], the way the legacy page printed
// its context list.
func quotedList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, quoteItem(item))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// quoteItem uses single quotes unless the text contains one and no double
// quote. Backslashes, the chosen quote and control characters are escaped.
func quoteItem(item string) string {
	quote := byte('\'')
	if strings.ContainsRune(item, '\'') && !strings.ContainsRune(item, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteByte(quote)
	for i := 0; i < len(item); i++ {
		switch c := item[i]; c {
		case '\\', quote:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// RenderCodeTemplate drops the image contexts and the question, unescaped,
// into a fixed Java skeleton. Nothing is parsed or compiled.
func RenderCodeTemplate(contexts []string, question string) (string, error) {
	var sb strings.Builder
	err := codeTemplate.Execute(&sb, struct {
		Contexts []string
		Question string
	}{
		Contexts: contexts,
		Question: question,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
