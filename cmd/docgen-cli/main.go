// Command docgen-cli inspects DOCX templates and generates filled documents
// from the terminal.
//
//	docgen-cli inspect -template contract.docx
//	docgen-cli generate -template contract.docx -data values.json -format pdf -output contract.pdf
//	docgen-cli fill -template contract.docx -output contract.docx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	docgen "github.com/goliatone/go-docgen"
	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/orchestrator"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "inspect":
		runInspect(os.Args[2:])
	case "generate":
		runGenerate(os.Args[2:])
	case "fill":
		runFill(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: docgen-cli <inspect|generate|fill> [flags]")
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	template := fs.String("template", "", "DOCX template path")
	asJSON := fs.Bool("json", false, "emit JSON instead of YAML")
	fs.Parse(args)

	if *template == "" {
		log.Fatalf("inspect: -template is required")
	}

	schema, err := docgen.ParseTemplate(*template)
	if err != nil {
		log.Fatalf("inspect: %v", err)
	}

	var out []byte
	if *asJSON {
		out, err = json.MarshalIndent(schema, "", "  ")
	} else {
		out, err = yaml.Marshal(schema)
	}
	if err != nil {
		log.Fatalf("inspect: encode schema: %v", err)
	}
	os.Stdout.Write(out)
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	template := fs.String("template", "", "DOCX template path")
	dataPath := fs.String("data", "", "JSON file mapping field names to values")
	signature := fs.String("signature", "", "signature image applied to every signature slot")
	format := fs.String("format", docgen.FormatDocx, "output format: docx, doc, pdf, or html")
	output := fs.String("output", "", "output file (stdout if empty)")
	noValidate := fs.Bool("no-validate", false, "skip input validation")
	fs.Parse(args)

	if *template == "" {
		log.Fatalf("generate: -template is required")
	}

	data := map[string]any{}
	if *dataPath != "" {
		raw, err := os.ReadFile(*dataPath)
		if err != nil {
			log.Fatalf("generate: read data: %v", err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			log.Fatalf("generate: parse data: %v", err)
		}
	}

	result, err := docgen.Generate(context.Background(), docgen.Request{
		TemplatePath:  *template,
		Data:          data,
		SignaturePath: *signature,
		Format:        *format,
	}, orchestrator.WithValidation(!*noValidate))
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	writeResult(result, *output)
}

func runFill(args []string) {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	template := fs.String("template", "", "DOCX template path")
	format := fs.String("format", docgen.FormatDocx, "output format: docx, doc, pdf, or html")
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)

	if *template == "" {
		log.Fatalf("fill: -template is required")
	}

	schema, err := docgen.ParseTemplate(*template)
	if err != nil {
		log.Fatalf("fill: %v", err)
	}

	data := map[string]any{}
	for _, field := range schema.InputFields() {
		if field.Autofilled {
			continue
		}
		value, err := ask(field)
		if err != nil {
			log.Fatalf("fill: %v", err)
		}
		data[field.Name] = value
	}

	result, err := docgen.Generate(context.Background(), docgen.Request{
		TemplatePath: *template,
		Data:         data,
		Format:       *format,
	})
	if err != nil {
		log.Fatalf("fill: %v", err)
	}

	writeResult(result, *output)
}

func ask(field model.Field) (any, error) {
	switch field.Type {
	case model.FieldTypeSelect, model.FieldTypeRadio:
		if len(field.Options) > 0 {
			var out string
			prompt := &survey.Select{
				Message: field.Label,
				Options: field.Options,
			}
			if err := survey.AskOne(prompt, &out); err != nil {
				return nil, err
			}
			return out, nil
		}
	case model.FieldTypeCheckbox:
		var out bool
		prompt := &survey.Confirm{Message: field.Label}
		if err := survey.AskOne(prompt, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var out string
	prompt := &survey.Input{Message: field.Label}
	var opts []survey.AskOpt
	if field.Required() {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func writeResult(result docgen.Result, output string) {
	if output == "" {
		os.Stdout.Write(result.Output)
		return
	}
	if err := os.WriteFile(output, result.Output, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("%s written to %s\n", result.Format, output)
}
