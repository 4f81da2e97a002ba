package service

import (
	"context"
	"fmt"

	"research-assist/internal/store"
)

// 语言与框架白名单
var supportedFrameworks = map[string][]string{
	"python": {"pytorch", "tensorflow", "sklearn", "pandas"},
	"r":      {"caret", "tidymodels", "stats"},
	"julia":  {"flux", "mlj"},
}

// 各语言的单行注释前缀，用于兜底stub
var commentPrefixes = map[string]string{
	"python": "#",
	"r":      "#",
	"julia":  "#",
}

const pytorchBasicTemplate = `import torch
import torch.nn as nn

torch.manual_seed(42)

# Synthetic regression data
X = torch.randn(256, 8)
true_w = torch.randn(8, 1)
y = X @ true_w + 0.1 * torch.randn(256, 1)

model = nn.Sequential(nn.Linear(8, 16), nn.ReLU(), nn.Linear(16, 1))
optimizer = torch.optim.Adam(model.parameters(), lr=1e-2)
loss_fn = nn.MSELoss()

for epoch in range(100):
    optimizer.zero_grad()
    loss = loss_fn(model(X), y)
    loss.backward()
    optimizer.step()

final_loss = loss_fn(model(X), y).item()
print(f"final loss: {final_loss:.6f}")
print('METRICS_JSON:{"mse": %.6f, "epochs": 100}' % final_loss)
`

const tensorflowBasicTemplate = `import numpy as np
import tensorflow as tf

np.random.seed(42)
tf.random.set_seed(42)

# Synthetic binary classification data
X = np.random.randn(512, 10).astype("float32")
w = np.random.randn(10, 1).astype("float32")
y = (X @ w > 0).astype("float32")

model = tf.keras.Sequential([
    tf.keras.layers.Dense(16, activation="relu", input_shape=(10,)),
    tf.keras.layers.Dense(1, activation="sigmoid"),
])
model.compile(optimizer="adam", loss="binary_crossentropy", metrics=["accuracy"])
history = model.fit(X, y, epochs=10, batch_size=32, verbose=0)

loss, acc = model.evaluate(X, y, verbose=0)
print('METRICS_JSON:{"loss": %.6f, "accuracy": %.4f}' % (loss, acc))
`

const sklearnBasicTemplate = `import numpy as np
from sklearn.datasets import make_classification
from sklearn.ensemble import RandomForestClassifier
from sklearn.metrics import accuracy_score, f1_score
from sklearn.model_selection import train_test_split

np.random.seed(42)

X, y = make_classification(n_samples=500, n_features=20, random_state=42)
X_train, X_test, y_train, y_test = train_test_split(
    X, y, test_size=0.25, random_state=42
)

model = RandomForestClassifier(n_estimators=100, random_state=42)
model.fit(X_train, y_train)
pred = model.predict(X_test)

acc = accuracy_score(y_test, pred)
f1 = f1_score(y_test, pred)
print('METRICS_JSON:{"accuracy": %.4f, "f1": %.4f}' % (acc, f1))
`

const pandasBasicTemplate = `import numpy as np
import pandas as pd

np.random.seed(42)

# Synthetic tabular data
df = pd.DataFrame({
    "group": np.random.choice(["a", "b", "c"], size=300),
    "value": np.random.randn(300),
})

summary = df.groupby("group")["value"].agg(["mean", "std", "count"])
print(summary)

overall_mean = df["value"].mean()
overall_std = df["value"].std()
print('METRICS_JSON:{"mean": %.6f, "std": %.6f, "rows": %d}'
      % (overall_mean, overall_std, len(df)))
`

const caretBasicTemplate = `library(caret)

set.seed(42)

# Synthetic classification data
n <- 300
x1 <- rnorm(n)
x2 <- rnorm(n)
y <- factor(ifelse(x1 + x2 + rnorm(n, sd = 0.5) > 0, "yes", "no"))
data <- data.frame(x1 = x1, x2 = x2, y = y)

idx <- createDataPartition(data$y, p = 0.75, list = FALSE)
train <- data[idx, ]
test <- data[-idx, ]

model <- train(y ~ ., data = train, method = "glm", family = "binomial")
pred <- predict(model, test)
acc <- mean(pred == test$y)

cat(sprintf('METRICS_JSON:{"accuracy": %.4f}\n', acc))
`

const fluxBasicTemplate = `using Flux
using Random

Random.seed!(42)

# Synthetic regression data
X = randn(Float32, 4, 200)
w = randn(Float32, 1, 4)
y = w * X .+ 0.1f0 .* randn(Float32, 1, 200)

model = Chain(Dense(4 => 8, relu), Dense(8 => 1))
opt = Flux.setup(Adam(0.01), model)
loss(m, x, y) = Flux.mse(m(x), y)

for epoch in 1:100
    grads = Flux.gradient(m -> loss(m, X, y), model)
    Flux.update!(opt, model, grads[1])
end

final_loss = loss(model, X, y)
println("METRICS_JSON:{\"mse\": $(final_loss), \"epochs\": 100}")
`

// (language, framework) -> 静态模板
var basicTemplates = map[string]map[string]string{
	"python": {
		"pytorch":    pytorchBasicTemplate,
		"tensorflow": tensorflowBasicTemplate,
		"sklearn":    sklearnBasicTemplate,
		"pandas":     pandasBasicTemplate,
	},
	"r": {
		"caret": caretBasicTemplate,
	},
	"julia": {
		"flux": fluxBasicTemplate,
	},
}

// TemplateCatalog 起步代码目录：优先静态模板，其次基于论文让LLM生成
type TemplateCatalog struct {
	llm    LLMAssistant
	papers *store.PaperStore
}

func NewTemplateCatalog(llm LLMAssistant, papers *store.PaperStore) *TemplateCatalog {
	return &TemplateCatalog{llm: llm, papers: papers}
}

// Generate 返回一段非空的起步代码。
// 语言/框架不在白名单内时报参数错误；没有静态模板且论文可用时走LLM；
// 都不行则退回一行stub注释。
func (t *TemplateCatalog) Generate(ctx context.Context, ownerID, language, framework, templateKind, paperID string) (string, error) {
	frameworks, ok := supportedFrameworks[language]
	if !ok {
		return "", fmt.Errorf("%w: 不支持的语言 %q", ErrValidation, language)
	}
	if !containsString(frameworks, framework) {
		return "", fmt.Errorf("%w: 语言 %s 不支持框架 %q", ErrValidation, language, framework)
	}

	if templateKind == "basic" {
		if tmpl, ok := basicTemplates[language][framework]; ok {
			return tmpl, nil
		}
	}

	if paperID != "" && t.llm != nil && t.papers != nil {
		paper, err := t.papers.Get(ctx, paperID, ownerID)
		if err != nil {
			return "", err
		}
		if paper != nil && paper.Content != "" {
			code, err := t.llm.GenerateCodeFromPaper(ctx, paper.Content, language, framework)
			if err == nil && code != "" {
				return code, nil
			}
		}
	}

	prefix := commentPrefixes[language]
	return fmt.Sprintf("%s %s 实验代码\n", prefix, language), nil
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
