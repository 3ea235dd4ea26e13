package cml

// Annotation type tags
const (
	AnnotationText      = "text"
	AnnotationRectangle = "rectangle"
	AnnotationEllipse   = "ellipse"
)

// Border styles
const (
	BorderSolid  = ""
	BorderDashed = "4,2"
	BorderDotted = "2,2"
)

// TextAnnotation is a free text box
type TextAnnotation struct {
	Type        string  `yaml:"type" json:"type"`
	BorderColor string  `yaml:"border_color" json:"border_color"`
	BorderStyle string  `yaml:"border_style" json:"border_style"`
	Color       string  `yaml:"color" json:"color"`
	Rotation    int     `yaml:"rotation" json:"rotation"`
	TextBold    bool    `yaml:"text_bold" json:"text_bold"`
	TextContent string  `yaml:"text_content" json:"text_content"`
	TextFont    string  `yaml:"text_font" json:"text_font"`
	TextItalic  bool    `yaml:"text_italic" json:"text_italic"`
	TextSize    int     `yaml:"text_size" json:"text_size"`
	TextUnit    string  `yaml:"text_unit" json:"text_unit"`
	Thickness   int     `yaml:"thickness" json:"thickness"`
	X1          float64 `yaml:"x1" json:"x1"`
	Y1          float64 `yaml:"y1" json:"y1"`
	ZIndex      int     `yaml:"z_index" json:"z_index"`
}

func (TextAnnotation) AnnotationType() string { return AnnotationText }

// ShapeAnnotation is a rectangle or an ellipse. For rectangles x1/y1 is the
// top left corner and x2/y2 the size; for ellipses x1/y1 is the center and
// x2/y2 the radii.
type ShapeAnnotation struct {
	Type         string  `yaml:"type" json:"type"`
	BorderColor  string  `yaml:"border_color" json:"border_color"`
	BorderRadius int     `yaml:"border_radius,omitempty" json:"border_radius,omitempty"`
	BorderStyle  string  `yaml:"border_style" json:"border_style"`
	Color        string  `yaml:"color" json:"color"`
	Rotation     int     `yaml:"rotation" json:"rotation"`
	Thickness    int     `yaml:"thickness" json:"thickness"`
	X1           float64 `yaml:"x1" json:"x1"`
	Y1           float64 `yaml:"y1" json:"y1"`
	X2           float64 `yaml:"x2" json:"x2"`
	Y2           float64 `yaml:"y2" json:"y2"`
	ZIndex       int     `yaml:"z_index" json:"z_index"`
}

func (a ShapeAnnotation) AnnotationType() string { return a.Type }
